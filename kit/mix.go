package kit

import "fmt"

// Selection names one source voice: a kit and a voice index within it.
type Selection struct {
	Kit   *Kit
	Voice int
}

// Mix builds a new kit out of four selected voices, one per output slot
// in order. The header is copied from the first selection's kit, and
// each voice is placed through SetVoice so the slot conversion rules
// apply; the same source kit or voice may appear in several selections.
func Mix(selections [4]Selection) (*Kit, error) {
	for i, sel := range selections {
		if sel.Kit == nil {
			return nil, fmt.Errorf("selection %d: %w: nil kit", i, ErrIndexOutOfRange)
		}
		if sel.Voice < 0 || sel.Voice > 3 {
			return nil, fmt.Errorf("selection %d: %w: got %d", i, ErrIndexOutOfRange, sel.Voice)
		}
	}

	mixed, err := NewWithHeader(selections[0].Kit.Header())
	if err != nil {
		return nil, err
	}

	for target, sel := range selections {
		v, err := sel.Kit.Voice(sel.Voice)
		if err != nil {
			return nil, fmt.Errorf("selection %d: %w", target, err)
		}
		if err := mixed.SetVoice(target, v); err != nil {
			return nil, fmt.Errorf("selection %d: %w", target, err)
		}
	}

	return mixed, nil
}
