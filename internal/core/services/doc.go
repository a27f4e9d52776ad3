// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services take the user ID on every call and keep no per-user state,
// so one instance serves concurrent requests for any number of users.
package services
