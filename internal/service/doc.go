// Package service contains the task and user use cases. Its main job is
// reconciliation: keeping a task's assignedUser and assignedUserName in step
// with the assignee's pendingTasks whenever either side changes.
//
// Every mutating operation runs in a single database transaction through
// store.RunInTransaction, with the stores bound to it via WithTx. The
// service layer depends on the store interfaces only, never on a specific
// database implementation.
//
// Two behaviours are kept on purpose and are covered by tests:
//   - Creating a task whose assignedUser names no existing user keeps the
//     reference but sets assignedUserName to "unassigned".
//   - Replacing a user's pendingTasks points every listed task at the user
//     without unassigning the tasks that were dropped from the list.
package service
