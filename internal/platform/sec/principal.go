// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Principal is the authenticated user resolved from a request's bearer token.
//
// It is produced once per request by the identity resolver after the token has
// been verified and the account has been looked up in storage.
type Principal struct {
	UserID   int64
	Username string
	Email    string
	IsActive *bool
}
