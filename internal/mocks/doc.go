// Package mocks provides testify mocks of the application's interfaces for
// use across test packages.
//
//	tasks := new(mocks.TaskStore)
//	tasks.On("GetByID", mock.Anything, owner, id).Return(task, nil)
package mocks
