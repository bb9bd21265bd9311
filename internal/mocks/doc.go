// Package mocks provides testify mock implementations of the service and
// store interfaces.
//
// Usage:
//
//	tasks := new(mocks.TaskService)
//	tasks.On("Get", mock.Anything, id).Return(task, nil)
//	handler := api.NewTaskHandler(tasks, nil)
//	...
//	tasks.AssertExpectations(t)
package mocks
