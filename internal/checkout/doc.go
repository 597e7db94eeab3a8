// Package checkout drives paid plan upgrades. It creates a hosted checkout
// session on the backend, opens the processor's page in the user's browser,
// and waits on a loopback HTTP listener for the redirect back, classifying
// the return as success, canceled, or unknown.
package checkout
