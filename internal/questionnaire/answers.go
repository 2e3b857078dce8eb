package questionnaire

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when a key is not one of the ten fixed question keys.
	ErrInvalidKey = errors.New("invalid question key")

	// ErrInvalidAnswer is returned when a value is not "", "No" or "Yes".
	ErrInvalidAnswer = errors.New("invalid answer")
)

// Key identifies one of the fixed questions.
type Key string

const (
	HistoryDiagnosed    Key = "history_diagnosed"
	HistoryBiopsies     Key = "history_biopsies"
	HistoryFamily       Key = "history_family"
	SymptomsLumps       Key = "symptoms_lumps"
	SymptomsPain        Key = "symptoms_pain"
	SymptomsDischarge   Key = "symptoms_discharge"
	SymptomsSizeChange  Key = "symptoms_size_change"
	SymptomsSkinChange  Key = "symptoms_skin_change"
	ScreeningMammogram  Key = "screening_mammogram"
	ScreeningOtherTests Key = "screening_other_tests"
)

// NumKeys is the number of questions, and the arity of Features.
const NumKeys = 10

// keyOrder is the feature order used everywhere: encoding, training, charts.
var keyOrder = [NumKeys]Key{
	HistoryDiagnosed,
	HistoryBiopsies,
	HistoryFamily,
	SymptomsLumps,
	SymptomsPain,
	SymptomsDischarge,
	SymptomsSizeChange,
	SymptomsSkinChange,
	ScreeningMammogram,
	ScreeningOtherTests,
}

// Keys returns the question keys in feature order.
func Keys() []Key {
	out := make([]Key, NumKeys)
	copy(out, keyOrder[:])
	return out
}

// KeyNames returns the keys as plain strings, in feature order.
func KeyNames() []string {
	out := make([]string, NumKeys)
	for i, k := range keyOrder {
		out[i] = string(k)
	}
	return out
}

// Index returns the feature position of k, or -1 if k is not a known key.
func (k Key) Index() int {
	for i, known := range keyOrder {
		if known == k {
			return i
		}
	}
	return -1
}

// Valid reports whether k is one of the fixed keys.
func (k Key) Valid() bool {
	return k.Index() >= 0
}

// ParseKey converts s to a Key.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return k, nil
}

// Answer is a single response. The zero value means unanswered.
type Answer string

const (
	Unanswered Answer = ""
	No         Answer = "No"
	Yes        Answer = "Yes"
)

// Options lists the choices offered for every question, in display order.
var Options = []Answer{Unanswered, No, Yes}

// ParseAnswer converts s to an Answer.
func ParseAnswer(s string) (Answer, error) {
	switch a := Answer(s); a {
	case Unanswered, No, Yes:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
	}
}

// Next cycles "" -> No -> Yes -> "".
func (a Answer) Next() Answer {
	switch a {
	case Unanswered:
		return No
	case No:
		return Yes
	default:
		return Unanswered
	}
}

// Prev cycles in the opposite direction of Next.
func (a Answer) Prev() Answer {
	switch a {
	case Unanswered:
		return Yes
	case Yes:
		return No
	default:
		return Unanswered
	}
}

// Features is the 0/1 recoding of an AnswerSet in key order.
type Features [NumKeys]float64

// Slice returns the features as a slice for the classifier.
func (f Features) Slice() []float64 {
	out := make([]float64, NumKeys)
	copy(out, f[:])
	return out
}

// AnswerSet holds one answer per fixed key. The zero value has every
// question unanswered.
type AnswerSet struct {
	values [NumKeys]Answer
}

// NewAnswerSet returns an AnswerSet with every question unanswered.
func NewAnswerSet() AnswerSet {
	return AnswerSet{}
}

// Set records the answer for k. Last write wins.
func (s *AnswerSet) Set(k Key, a Answer) error {
	i := k.Index()
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, string(k))
	}
	if _, err := ParseAnswer(string(a)); err != nil {
		return err
	}
	s.values[i] = a
	return nil
}

// Get returns the answer for k; unknown keys read as unanswered.
func (s AnswerSet) Get(k Key) Answer {
	i := k.Index()
	if i < 0 {
		return Unanswered
	}
	return s.values[i]
}

// Encode maps Yes to 1 and everything else, including unanswered, to 0.
func (s AnswerSet) Encode() Features {
	var f Features
	for i, a := range s.values {
		if a == Yes {
			f[i] = 1
		}
	}
	return f
}

// Answered returns how many questions have a non-empty answer.
func (s AnswerSet) Answered() int {
	n := 0
	for _, a := range s.values {
		if a != Unanswered {
			n++
		}
	}
	return n
}

// YesKeys returns the keys answered Yes, in key order.
func (s AnswerSet) YesKeys() []Key {
	var out []Key
	for i, a := range s.values {
		if a == Yes {
			out = append(out, keyOrder[i])
		}
	}
	return out
}

// Map returns a copy of the answers keyed by question.
func (s AnswerSet) Map() map[Key]Answer {
	m := make(map[Key]Answer, NumKeys)
	for i, a := range s.values {
		m[keyOrder[i]] = a
	}
	return m
}

// FromMap builds an AnswerSet from raw key/value strings. Keys that are
// absent stay unanswered.
func FromMap(raw map[string]string) (AnswerSet, error) {
	var s AnswerSet
	for k, v := range raw {
		key, err := ParseKey(k)
		if err != nil {
			return AnswerSet{}, err
		}
		a, err := ParseAnswer(v)
		if err != nil {
			return AnswerSet{}, fmt.Errorf("%s: %w", k, err)
		}
		s.values[key.Index()] = a
	}
	return s, nil
}

func (s AnswerSet) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, NumKeys)
	for i, a := range s.values {
		m[string(keyOrder[i])] = string(a)
	}
	return json.Marshal(m)
}

func (s *AnswerSet) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromMap(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
