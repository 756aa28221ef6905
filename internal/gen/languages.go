package gen

import (
	"encoding/binary"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperion/server/internal/core/rng"
)

// SyllablePattern is a consonant/vowel template.
type SyllablePattern string

const (
	PatternCV  SyllablePattern = "cv"
	PatternCVC SyllablePattern = "cvc"
	PatternV   SyllablePattern = "v"
	PatternVC  SyllablePattern = "vc"
)

// Phonology is a language's sound inventory.
type Phonology struct {
	Consonants      []string
	Vowels          []string
	ConsonantClusters bool
	FinalConsonants bool
}

// WordStructure is a language's syllable rules.
type WordStructure struct {
	MinSyllables int
	MaxSyllables int
	Pattern      SyllablePattern
}

// Language is a generated faction language with a core vocabulary.
type Language struct {
	Name       string
	Phonology  Phonology
	Structure  WordStructure
	Vocabulary map[string]string
}

// coreVocabulary is the 25-entry word list every language covers.
var coreVocabulary = []string{
	"hello", "goodbye", "yes", "no", "please", "thank you",
	"friend", "enemy", "ship", "star", "planet", "station",
	"trade", "war", "peace", "alliance", "attack", "defend",
	"captain", "crew", "weapon", "shield", "engine", "home", "honor",
}

var allConsonants = []string{
	"p", "t", "k", "b", "d", "g", "m", "n",
	"f", "s", "h", "v", "z", "l", "r", "w", "y",
	"ch", "sh", "th", "zh", "kh", "gh",
}

var allVowels = []string{"a", "e", "i", "o", "u", "ae", "ai", "au", "ei", "ou"}

var titleCaser = cases.Title(language.Und)

// GenerateLanguage builds a language for a faction. The name is derived from
// a generated word so it matches the language's own phonology.
func GenerateLanguage(r *rng.Stream) Language {
	ph := generatePhonology(r)
	st := generateStructure(r)

	lang := Language{
		Phonology:  ph,
		Structure:  st,
		Vocabulary: make(map[string]string, len(coreVocabulary)),
	}
	lang.Name = titleCaser.String(generateWord(r, ph, st))

	for _, word := range coreVocabulary {
		lang.Vocabulary[word] = generateWord(r, ph, st)
	}
	return lang
}

func generatePhonology(r *rng.Stream) Phonology {
	ph := Phonology{
		ConsonantClusters: false,
		FinalConsonants:   false,
	}
	numC := r.IntRange(8, 15)
	for i := 0; i < numC; i++ {
		c := allConsonants[r.Intn(len(allConsonants))]
		if !contains(ph.Consonants, c) {
			ph.Consonants = append(ph.Consonants, c)
		}
	}
	numV := r.IntRange(3, 6)
	for i := 0; i < numV; i++ {
		v := allVowels[r.Intn(len(allVowels))]
		if !contains(ph.Vowels, v) {
			ph.Vowels = append(ph.Vowels, v)
		}
	}
	ph.ConsonantClusters = r.Bool(0.5)
	ph.FinalConsonants = r.Bool(0.7)
	return ph
}

func generateStructure(r *rng.Stream) WordStructure {
	min := r.IntRange(1, 2)
	return WordStructure{
		MinSyllables: min,
		MaxSyllables: r.IntRange(min, 4),
		Pattern: []SyllablePattern{
			PatternCV, PatternCVC, PatternV, PatternVC,
		}[r.Intn(4)],
	}
}

func generateWord(r *rng.Stream, ph Phonology, st WordStructure) string {
	n := r.IntRange(st.MinSyllables, st.MaxSyllables)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(generateSyllable(r, ph, st.Pattern, i == n-1))
	}
	return b.String()
}

func generateSyllable(r *rng.Stream, ph Phonology, pattern SyllablePattern, isFinal bool) string {
	c := func() string { return ph.Consonants[r.Intn(len(ph.Consonants))] }
	v := func() string { return ph.Vowels[r.Intn(len(ph.Vowels))] }

	switch pattern {
	case PatternCV:
		return c() + v()
	case PatternCVC:
		s := c() + v()
		if ph.FinalConsonants || !isFinal {
			s += c()
		}
		return s
	case PatternV:
		return v()
	default: // VC
		s := v()
		if ph.FinalConsonants || !isFinal {
			s += c()
		}
		return s
	}
}

// Translate returns the language's word for an English term, or generates a
// deterministic hash-keyed word for terms outside the core vocabulary. The
// same (language, term) pair always yields the same word.
func (l *Language) Translate(word string) string {
	if w, ok := l.Vocabulary[strings.ToLower(word)]; ok {
		return w
	}
	// Derive a private stream from the language identity and the term.
	h, _ := blake2b.New256(nil)
	h.Write([]byte(l.Name))
	for _, k := range sortedKeys(l.Vocabulary) {
		h.Write([]byte(k))
		h.Write([]byte(l.Vocabulary[k]))
	}
	h.Write([]byte(strings.ToLower(word)))
	seed := binary.LittleEndian.Uint64(h.Sum(nil))
	r := rng.NewStream(seed, "translate")
	return generateWord(r, l.Phonology, l.Structure)
}

// Phrase generates a deterministic multi-word phrase keyed by seed.
func (l *Language) Phrase(seed uint64) string {
	r := rng.NewStream(seed, "phrase:"+l.Name)
	n := r.IntRange(2, 5)
	words := make([]string, n)
	for i := range words {
		words[i] = generateWord(r, l.Phonology, l.Structure)
	}
	return strings.Join(words, " ")
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
