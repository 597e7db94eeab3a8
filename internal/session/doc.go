// Package session owns the authenticated-user state of the CLI.
//
// The store moves through a small lifecycle: uninitialized, hydrating (the
// persisted token pair is being loaded), and hydrated as either authenticated
// or anonymous. Only the token pair is persisted; the profile is re-fetched
// after hydration, so consumers must tolerate an authenticated session with a
// nil user. Logout returns the store to hydrated-anonymous and never back to
// hydrating.
//
// Token expiry is inspected from unverified JWT claims solely to schedule
// proactive refreshes; signature validation is the backend's job.
package session
