package subscription

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid subscription status")
	ErrInvalidTransition = errors.New("invalid subscription status transition")

	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
	ErrInvalidSubscription       = errors.New("invalid subscription record")
)
