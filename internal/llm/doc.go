// Package llm provides chat-completion clients for the assistant.
//
// The Client interface abstracts one round trip to a chat model:
//
//	client, err := llm.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.Complete(ctx, llm.Request{
//	    System: "You are an expert R programmer.",
//	    User:   prompt,
//	})
//
// # Providers
//
// Three implementations exist:
//   - openai: the OpenAI chat completions API (needs OPENAI_API_KEY)
//   - ollama: a local Ollama server, the no-credentials default
//   - static: a canned response, for tests and offline use
//
// NewFromEnv picks one from RASSIST_LLM_PROVIDER, falling back to openai
// when an API key is present and to ollama otherwise.
//
// # Retry and Caching
//
// HTTP providers retry transient failures with exponential backoff and
// honor context cancellation. Deterministic requests (temperature 0) are
// cached in an LRU keyed by a hash of provider, model, and prompts, so
// repeating an identical edit does not cost a second API call.
package llm
