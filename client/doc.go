// Package client is the Go client SDK for the chat backend: an HTTP API
// client, a persistent token store, a presence socket manager, and the
// session store that ties them together.
//
// The session store is the single owner of client authentication state. It
// is an explicitly constructed instance, never ambient global state, with
// three states: checking, unauthenticated, authenticated. All transitions
// are serialized and run to completion; the presence channel is connected
// iff the state is authenticated.
//
// Basic usage:
//
//	api, _ := client.NewAPI("http://localhost:8080")
//	tokens, _ := client.NewFileTokenStore(path)
//	socket := client.NewSocketManager("http://localhost:8080", log)
//
//	store := client.NewStore(api, tokens, socket, log)
//	defer store.Close()
//
//	// Startup check: runs exactly once, resolves checking into
//	// authenticated or unauthenticated.
//	state := store.CheckAuth(ctx)
//
//	if _, err := store.Login(ctx, email, password); err != nil {
//		// err.Error() is the server-reported message, verbatim
//	}
//
//	online := store.OnlineUsers() // replaced wholesale on each broadcast
package client
