// Package autosave periodically persists editor snapshots to local disk.
//
// A [Saver] reads a snapshot from its [Source] on a fixed interval, encodes
// it as a JSON document and hands it to a [Store] under a per-session key.
// Snapshots identical to the last saved one are skipped. Reading a snapshot
// never mutates the editor.
//
// [FileStore] keeps each session in one lz4-compressed file under
// $XDG_STATE_HOME/mindtower/autosave. File names are derived from a hash of
// the session key; the key itself is stored inside the file so [Store.List]
// can report it.
//
//	store, _ := autosave.NewFileStore("")
//	saver := autosave.NewSaver(store, ed, autosave.Options{Interval: 10 * time.Second})
//	go saver.Run(ctx)
package autosave
