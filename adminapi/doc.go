// Package adminapi serves the administrative user-management HTTP surface
// over an authlink.Directory.
//
// # Routes
//
//	GET    /api/users          — list all users        (admin)
//	POST   /api/users          — create a user         (admin)
//	GET    /api/users/me       — the caller's identity (any authenticated)
//	GET    /api/users/{email}  — fetch one user        (admin)
//	PATCH  /api/users/{email}  — merge-update a user   (admin)
//	DELETE /api/users/{email}  — remove a user         (admin)
//
// PATCH is a key-merge: only fields present in the request body change,
// and roles replace the stored set wholesale when given.
//
// # Architecture boundaries
//
// Handlers translate HTTP into Directory calls and authlink errors into
// status codes. Credential verification happens upstream; this package
// only consumes the middleware Identity and enforces the admin role.
package adminapi
