package config

// StoreKeyStruct centralizes the named slots every persisted collection
// lives under in the durable store.
type StoreKeyStruct struct {
	History         string
	Bookmarks       string
	MasteryCards    string
	SRSStates       string
	QuestionLibrary string
	StudyPlan       string
	LifetimeStats   string
}

var StoreKey = &StoreKeyStruct{
	History:         "history",
	Bookmarks:       "bookmarks",
	MasteryCards:    "mastery_cards",
	SRSStates:       "srs_states",
	QuestionLibrary: "question_library",
	StudyPlan:       "study_plan",
	LifetimeStats:   "lifetime_stats",
}

// ActiveSessionKey is the Redis key the live quiz session is mirrored to.
// It sits outside the durable slot store so a hard reload can restore an
// in-progress session before the async store has finished loading.
const ActiveSessionKey = "study:active_session"
