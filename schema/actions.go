package schema

import "fmt"

// ActionCategory is one of the three event domains an action belongs to.
type ActionCategory string

// All action categories.
const (
	CommitCategory ActionCategory = "C"
	BugCategory    ActionCategory = "B"
	MailCategory   ActionCategory = "M"
)

// AllCategories lists the categories in display order.
var AllCategories = []ActionCategory{CommitCategory, BugCategory, MailCategory}

// Name returns the human readable category name.
func (c ActionCategory) Name() string {
	switch c {
	case CommitCategory:
		return "commit"
	case BugCategory:
		return "bug"
	case MailCategory:
		return "mail"
	default:
		return "unknown"
	}
}

// Polarity says whether an action counts for or against a developer.
type Polarity int

// Polarity values; they double as score multipliers.
const (
	Negative Polarity = -1
	Positive Polarity = 1
)

// String renders the polarity as a sign.
func (p Polarity) String() string {
	if p < 0 {
		return "-"
	}
	return "+"
}

// ActionType is a concrete action code from the fixed taxonomy.
type ActionType string

// Commit actions.
const (
	EmptyCommit        ActionType = "CEC"
	BugLinkedCommit    ActionType = "CBN"
	Commendation       ActionType = "CPH"
	OversizedCommit    ActionType = "CMF"
	NewDirectory       ActionType = "CND"
	NewSourceFile      ActionType = "CNS"
	NewBinaryFile      ActionType = "CBF"
	NewDocFile         ActionType = "CDF"
	NewTranslationFile ActionType = "CTF"
	LinesAdded         ActionType = "TLA"
	LinesRemoved       ActionType = "TLR"
	LinesModified      ActionType = "TLM"
)

// Bug actions. No classification rule produces them yet; they exist so
// weights and scores cover the whole taxonomy.
const (
	BugOpened  ActionType = "BOP"
	BugClosed  ActionType = "BCL"
	BugComment ActionType = "BCM"
)

// Mail actions.
const (
	MessageSent   ActionType = "MSE"
	ThreadStarted ActionType = "MST"
	FirstReply    ActionType = "MFR"
	ThreadClosed  ActionType = "MCT"
)

// ActionTypeInfo binds an action type to its category and polarity.
type ActionTypeInfo struct {
	Type        ActionType     `json:"type"`
	Category    ActionCategory `json:"category"`
	Polarity    Polarity       `json:"polarity"`
	Description string         `json:"description"`
}

// AllActionTypes lists every action type in display order.
var AllActionTypes = []ActionTypeInfo{
	{EmptyCommit, CommitCategory, Negative, "Empty commit message"},
	{BugLinkedCommit, CommitCategory, Positive, "Commit references a bug"},
	{Commendation, CommitCategory, Positive, "Commit awards a pointy hat"},
	{OversizedCommit, CommitCategory, Negative, "Commit touches too many files"},
	{NewDirectory, CommitCategory, Positive, "New directory"},
	{NewSourceFile, CommitCategory, Positive, "New source file"},
	{NewBinaryFile, CommitCategory, Negative, "New binary file"},
	{NewDocFile, CommitCategory, Positive, "New documentation file"},
	{NewTranslationFile, CommitCategory, Positive, "New translation file"},
	{LinesAdded, CommitCategory, Positive, "Lines added"},
	{LinesRemoved, CommitCategory, Positive, "Lines removed"},
	{LinesModified, CommitCategory, Positive, "Lines modified"},
	{BugOpened, BugCategory, Positive, "Bug reported"},
	{BugClosed, BugCategory, Positive, "Bug closed"},
	{BugComment, BugCategory, Positive, "Bug comment"},
	{MessageSent, MailCategory, Positive, "Message sent"},
	{ThreadStarted, MailCategory, Positive, "Starts a thread"},
	{FirstReply, MailCategory, Positive, "First reply to a thread"},
	{ThreadClosed, MailCategory, Positive, "Closes a thread"},
}

var actionTypeIndex = func() map[ActionType]ActionTypeInfo {
	idx := make(map[ActionType]ActionTypeInfo, len(AllActionTypes))
	for _, info := range AllActionTypes {
		idx[info.Type] = info
	}
	return idx
}()

// LookupActionType returns the taxonomy entry for t.
func LookupActionType(t ActionType) (ActionTypeInfo, bool) {
	info, ok := actionTypeIndex[t]
	return info, ok
}

// MustLookupActionType is LookupActionType for codes known at compile time.
func MustLookupActionType(t ActionType) ActionTypeInfo {
	info, ok := actionTypeIndex[t]
	if !ok {
		panic(fmt.Sprintf("unknown action type %q", t))
	}
	return info
}

// Category returns the category of t, or "" for unknown codes.
func (t ActionType) Category() ActionCategory {
	return actionTypeIndex[t].Category
}

// Sign returns +1 or -1 according to the polarity of t, and 0 for unknown codes.
func (t ActionType) Sign() float64 {
	info, ok := actionTypeIndex[t]
	if !ok {
		return 0
	}
	return float64(info.Polarity)
}

// TypesOf returns the action types bound to category c.
func TypesOf(c ActionCategory) []ActionType {
	var types []ActionType
	for _, info := range AllActionTypes {
		if info.Category == c {
			types = append(types, info.Type)
		}
	}
	return types
}
