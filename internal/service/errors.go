package service

import "errors"

var (
	ErrDishNotFound       = errors.New("dish not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrPageNotFound       = errors.New("page not found")
	ErrInvalidCredentials = errors.New("please enter a correct username and password")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
)
