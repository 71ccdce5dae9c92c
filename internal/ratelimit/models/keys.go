package models

import (
	id "trs/pkg/domain"
)

const keyPrefix = "trs:ratelimit:"

// UserKey scopes a bucket to one authenticated user.
func UserKey(userID id.UserID) string {
	return keyPrefix + "user:" + userID.String()
}

// IPKey scopes a bucket to one client address.
func IPKey(ip string) string {
	return keyPrefix + "ip:" + ip
}
