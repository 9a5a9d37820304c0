// Package watch reloads documents when their file changes.
//
// A Watcher turns fsnotify events for one file into debounced signals. It
// never touches a document itself: Follow receives the signals on the
// owner's goroutine and calls config.ReaderWriter.Sync, which compares the
// modification time and reloads with the decoder used for the first load.
//
// # Usage Example
//
//	w, err := watch.New("robot.yaml", 0)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	go w.Run(ctx)
//	watch.Follow(ctx, w, rw, time.Second, func() {
//	    fmt.Print(rw.ToYAMLString())
//	})
package watch
