// Package activity tags a map tooltip with the endgame activities whose icons
// appear in it.
package activity

import (
	"strings"
	"unicode"
)

// Kind is a known endgame activity. KindOther covers icons that have no
// dedicated kind; their Activity carries the derived display name.
type Kind int

const (
	KindOther Kind = iota
	KindBoss
	KindBreach
	KindCorruption
	KindDelirium
	KindExpedition
	KindHideout
	KindIrradiated
	KindRitual
)

var kindNames = map[Kind]string{
	KindBoss:       "Boss",
	KindBreach:     "Breach",
	KindCorruption: "Corruption",
	KindDelirium:   "Delirium",
	KindExpedition: "Expedition",
	KindHideout:    "Hideout",
	KindIrradiated: "Irradiated",
	KindRitual:     "Ritual",
}

var kindByIcon = map[string]Kind{
	"boss":       KindBoss,
	"breach":     KindBreach,
	"corruption": KindCorruption,
	"delirium":   KindDelirium,
	"expedition": KindExpedition,
	"hideout":    KindHideout,
	"irradiated": KindIrradiated,
	"ritual":     KindRitual,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Other"
}

// Kinds lists the known kinds in display order.
func Kinds() []Kind {
	return []Kind{
		KindBoss, KindBreach, KindCorruption, KindDelirium,
		KindExpedition, KindHideout, KindIrradiated, KindRitual,
	}
}

// Activity is a detected activity and its display name.
type Activity struct {
	Kind Kind
	Name string
}

func (a Activity) String() string { return a.Name }

// MarshalText encodes the activity as its display name.
func (a Activity) MarshalText() ([]byte, error) {
	return []byte(a.Name), nil
}

// UnmarshalText accepts a display or icon name.
func (a *Activity) UnmarshalText(b []byte) error {
	*a = Parse(string(b))
	return nil
}

// Parse maps an icon name (the file name without extension) to its activity.
// Matching is case-insensitive; unknown names become KindOther with the name
// title-cased.
func Parse(name string) Activity {
	if k, ok := kindByIcon[strings.ToLower(name)]; ok {
		return Activity{Kind: k, Name: kindNames[k]}
	}
	return Activity{Kind: KindOther, Name: titleCase(name)}
}

// Names returns the display names of acts, in order.
func Names(acts []Activity) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.Name
	}
	return out
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "abyss_pit" becomes "Abyss_Pit".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
