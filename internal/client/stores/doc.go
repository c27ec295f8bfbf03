// Package stores holds the client-side resource stores: users, students and
// files. Each store owns one paginated listing that mirrors a page of the
// backend and is patched in place after successful writes instead of being
// re-fetched.
//
// Store methods may be called concurrently. A store's lock guards its state
// only and is never held across a request, so overlapping writes to the same
// store resolve last-writer-wins.
package stores
