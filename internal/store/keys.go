package store

import (
	"fmt"

	"pkt.systems/gamelaunch/schema"
)

// Key prefix for all launcher records in Redis.
const keyPrefix = "gamelaunch"

func userKey(id schema.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

func userSeqKey() string {
	return fmt.Sprintf("%s:seq:user_id", keyPrefix)
}

func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

func loginsKey() string {
	return fmt.Sprintf("%s:logins", keyPrefix)
}

func playingKey(id schema.UserID) string {
	return fmt.Sprintf("%s:playing:%d", keyPrefix, id)
}

func playingIndexKey() string {
	return fmt.Sprintf("%s:idx:playing", keyPrefix)
}
