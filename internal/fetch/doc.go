// Package fetch provides the HTTP client shared by the sign's remote
// collaborators: the widget document store and the rail prediction API.
//
// [Client] applies a per-request timeout, keeps a small connection pool,
// caps response bodies at 1MB, and decodes JSON. Retrying is left to the
// caller (see package retry) so each collaborator chooses its own policy.
package fetch
