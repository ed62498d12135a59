// Package service contains the application use cases. TaskService is the
// single façade over task storage, querying and chat extraction;
// UserService covers accounts and tokens.
//
// Services receive their stores and collaborators through constructors and
// never depend on a concrete storage driver.
package service
