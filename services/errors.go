package services

import "errors"

// Domain errors. Every expected failure surfaces as one of these so the
// presentation layer can map it to a specific message; storage-level
// conflicts (duplicate key, failed conditional update) are translated here
// and never retried.
var (
	ErrInsufficientFunds   = errors.New("insufficient stars balance")
	ErrAlreadyCompleted    = errors.New("task already completed")
	ErrAlreadyRewarded     = errors.New("subscription already rewarded")
	ErrTaskInactive        = errors.New("task is not active")
	ErrNotEligible         = errors.New("eligibility requirements not met")
	ErrQuotaExceeded       = errors.New("daily game limit reached")
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrChannelNotFound     = errors.New("channel not found")
	ErrWithdrawalNotFound  = errors.New("withdrawal request not found")
	ErrInvalidState        = errors.New("withdrawal request already processed")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrProviderUnavailable = errors.New("sponsor provider unavailable")
	ErrUserBanned          = errors.New("user is banned")
	ErrSelfReferral        = errors.New("self-referral is not allowed")
)
