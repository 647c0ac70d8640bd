package cipher

// Playfair encrypts pairs of letters (digraphs) against a 5x5 key grid.
// J is merged into I throughout, in the grid and in the text.
type Playfair struct {
	grid [25]byte
	cell [26]int // letter -> grid index; J shares I's cell
}

const (
	gridCells  = 25
	gridWidth  = 5
	fillerMain = 'X'
	fillerAlt  = 'Q' // used when the duplicate letter is X itself
)

// NewPlayfair derives the key grid: case-fold the key, merge J into I,
// keep the first occurrence of each letter, then append the remaining
// alphabet letters in order until all 25 cells are filled. An empty key
// is valid and yields the plain alphabet grid; any non-letter rune in
// the key is invalid.
func NewPlayfair(key string) (*Playfair, error) {
	p := &Playfair{}
	var used [26]bool
	used['J'-'A'] = true // J never occupies a cell of its own
	n := 0
	for _, r := range key {
		var ch byte
		switch {
		case r >= 'A' && r <= 'Z':
			ch = byte(r)
		case r >= 'a' && r <= 'z':
			ch = byte(r - 'a' + 'A')
		default:
			return nil, invalidKey(KindPlayfair, "key rune %q is not a letter", r)
		}
		if ch == 'J' {
			ch = 'I'
		}
		if used[ch-'A'] {
			continue
		}
		used[ch-'A'] = true
		p.grid[n] = ch
		n++
	}
	for ch := byte('A'); ch <= 'Z'; ch++ {
		if used[ch-'A'] {
			continue
		}
		p.grid[n] = ch
		n++
	}
	for i, ch := range p.grid {
		p.cell[ch-'A'] = i
	}
	p.cell['J'-'A'] = p.cell['I'-'A']
	return p, nil
}

// Kind implements Cipher.
func (p *Playfair) Kind() Kind { return KindPlayfair }

// Grid returns the 25 grid letters in row order.
func (p *Playfair) Grid() string { return string(p.grid[:]) }

// prepareDigraphs folds text to grid letters and splits it into
// two-letter units: when both letters of a pair would be identical, a
// filler is inserted between them, and odd-length text is padded at the
// end. X is the filler, Q when the letter being doubled is X. Decrypt
// does not strip fillers, so a round trip reproduces this prepared form
// of the input rather than the raw input.
func prepareDigraphs(text string) []byte {
	out := make([]byte, 0, len(text)+2)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !isLetter(ch) {
			continue
		}
		if ch == 'J' {
			ch = 'I'
		}
		if len(out)%2 == 1 && out[len(out)-1] == ch {
			out = append(out, filler(ch))
		}
		out = append(out, ch)
	}
	if len(out)%2 == 1 {
		out = append(out, filler(out[len(out)-1]))
	}
	return out
}

func filler(dup byte) byte {
	if dup == fillerMain {
		return fillerAlt
	}
	return fillerMain
}

// Transform encrypts or decrypts digraph by digraph. Letters in the
// same grid row move one column right (encrypt) or left (decrypt);
// letters in the same column move one row down or up; otherwise each
// letter takes the other's column in its own row, a rule that is its
// own inverse. Output length is always even.
func (p *Playfair) Transform(text string, mode Mode) string {
	pairs := prepareDigraphs(text)
	step := 1
	if mode == ModeDecrypt {
		step = gridWidth - 1 // one cell backward under the modulus
	}
	out := make([]byte, len(pairs))
	for i := 0; i < len(pairs); i += 2 {
		a := p.cell[pairs[i]-'A']
		b := p.cell[pairs[i+1]-'A']
		ar, ac := a/gridWidth, a%gridWidth
		br, bc := b/gridWidth, b%gridWidth
		switch {
		case ar == br:
			out[i] = p.grid[ar*gridWidth+(ac+step)%gridWidth]
			out[i+1] = p.grid[br*gridWidth+(bc+step)%gridWidth]
		case ac == bc:
			out[i] = p.grid[((ar+step)%gridWidth)*gridWidth+ac]
			out[i+1] = p.grid[((br+step)%gridWidth)*gridWidth+bc]
		default:
			out[i] = p.grid[ar*gridWidth+bc]
			out[i+1] = p.grid[br*gridWidth+ac]
		}
	}
	return string(out)
}
