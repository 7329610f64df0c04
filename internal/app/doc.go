// Package app provides the use-case layer of the client.
//
// VoteQuery answers "has this user voted" against a freshly fetched vote window, and Autoposter
// owns the single recurring stats-reporting ticker. Both depend on domain interfaces only; the
// blistapi adapter satisfies them in production.
package app
