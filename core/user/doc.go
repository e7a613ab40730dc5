// Package user defines the identity model owned by the document-store
// collaborator: the user profile, credential hashing, and the persistence
// interface the rest of the system consumes.
//
// The password hash never leaves this package in serialized form: the field
// is excluded from JSON and the Public method strips it before a profile is
// attached to an authenticated request context.
package user
