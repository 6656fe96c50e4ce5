package model

// Keys of the local key-value store, one per panel.
const (
	KeyPomodoroHistory = "pomodoro-history"
	KeyTheme           = "myworld-theme"
	KeyNotes           = "myworld-notes"
	KeyHabits          = "myworld-habits"
	KeyGoals           = "myworld-goals"
	KeyQuotesFavorites = "myworld-quotes-fav"
)

// StoreKeys lists every key the application reads or writes.
var StoreKeys = []string{
	KeyPomodoroHistory,
	KeyTheme,
	KeyNotes,
	KeyHabits,
	KeyGoals,
	KeyQuotesFavorites,
}

func IsStoreKey(key string) bool {
	for _, k := range StoreKeys {
		if k == key {
			return true
		}
	}
	return false
}
