// Package history persists assistant interactions in SQLite.
//
// Every tool invocation that reaches a chat provider is recorded: the
// tool name, the file and span it operated on, the located function
// name, a hash of the rendered prompt, and the model's response. The
// log serves three purposes: an audit trail of what the assistant
// changed, an undo reference for editors, and the data behind the
// get_history and get_status tools.
//
// # Usage
//
//	store, err := history.Open(dbPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.Save(ctx, &history.Record{
//	    Tool:         "edit_function",
//	    FilePath:     "R/model.R",
//	    Span:         types.Span{Start: 10, End: 42},
//	    FunctionName: "fit_model",
//	    Response:     completion,
//	})
//
// # Drivers
//
// Two SQLite drivers are supported via build tags: the default build
// uses the pure Go modernc.org/sqlite driver, and `-tags sqlite_cgo`
// switches to mattn/go-sqlite3. The schema is versioned; migrations
// run automatically on Open.
package history
