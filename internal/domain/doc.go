// Package domain contains the core business entities of the service: tasks,
// users, and the patch types used to update them. It is independent of any
// storage engine or delivery mechanism.
package domain
