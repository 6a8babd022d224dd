package layout

import "strings"

// QWERTY rows, top to bottom. The bottom row holds the special keys.
var qwertyRows = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

// QWERTY builds a standard 4-row QWERTY layout filling the given keyboard
// rectangle. Row offsets follow the usual staggering: the home row is
// indented half a key, the bottom letter row a full key with shift and
// delete flanking it, and the last row is dominated by the spacebar.
//
// Used by tests and the replay tool; production hosts supply their own
// geometry.
func QWERTY(left, top, width, height float64) *StaticProvider {
	keyW := width / 10
	keyH := height / 4

	var keys []KeyRegion
	for row, letters := range qwertyRows {
		offset := float64(row) * keyW / 2
		y := top + keyH*float64(row) + keyH/2
		for col, r := range letters {
			keys = append(keys, KeyRegion{
				ID:      string(r),
				Output:  string(r),
				CenterX: left + offset + keyW*float64(col) + keyW/2,
				CenterY: y,
				Width:   keyW,
				Height:  keyH,
			})
		}
	}

	// Shift and delete flank the bottom letter row.
	bottomLetterY := top + keyH*2 + keyH/2
	keys = append(keys,
		KeyRegion{
			ID: "shift", Output: "", Special: true,
			CenterX: left + keyW*0.75, CenterY: bottomLetterY,
			Width: keyW * 1.5, Height: keyH,
		},
		KeyRegion{
			ID: "delete", Output: "", Special: true,
			CenterX: left + width - keyW*0.75, CenterY: bottomLetterY,
			Width: keyW * 1.5, Height: keyH,
		},
	)

	// Bottom row: spacebar spanning the middle, return on the right.
	bottomY := top + keyH*3 + keyH/2
	keys = append(keys,
		KeyRegion{
			ID: "space", Output: " ", Special: true,
			CenterX: left + width/2, CenterY: bottomY,
			Width: keyW * 5, Height: keyH,
		},
		KeyRegion{
			ID: "return", Output: "\n", Special: true,
			CenterX: left + width - keyW, CenterY: bottomY,
			Width: keyW * 2, Height: keyH,
		},
	)

	return NewStaticProvider(keys)
}

// QwertyKey returns the region for the given letter in the provider, if
// present. Convenience for tests that aim gestures at specific keys.
func QwertyKey(p *StaticProvider, letter string) (KeyRegion, bool) {
	for _, k := range p.Keys() {
		if strings.EqualFold(k.ID, letter) {
			return k, true
		}
	}
	return KeyRegion{}, false
}
