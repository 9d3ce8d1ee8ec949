package services

// RequiredConversations is how many logged chats a user needs before
// analytics unlock.
const RequiredConversations = 3

// HasEnoughData reports whether analytics can be computed for a user with
// the given conversation count.
func HasEnoughData(count int) bool {
	return count >= RequiredConversations
}

// NeededMore returns how many conversations remain before analytics unlock.
func NeededMore(count int) int {
	if count >= RequiredConversations {
		return 0
	}
	return RequiredConversations - count
}
