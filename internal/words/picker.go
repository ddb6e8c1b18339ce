package words

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Picker chooses an index in [0, n). n is always positive.
type Picker interface {
	Pick(n int) int
}

// PickerFunc adapts a plain function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) Pick(n int) int { return f(n) }

// CryptoPicker draws indices from crypto/rand.
type CryptoPicker struct{}

func (CryptoPicker) Pick(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}

// Fixed always returns the index of word in a dictionary's source order.
// Handy for pinning a secret in tests. It panics if word is not in d.
func Fixed(d *Dictionary, word string) Picker {
	for i, w := range d.words {
		if w == normalize(word) {
			return PickerFunc(func(int) int { return i })
		}
	}
	panic(fmt.Sprintf("words: Fixed: %q is not in the dictionary", word))
}
