package transcript

import (
	"regexp"
	"sort"
	"strconv"
)

// roomTitleWithCount matches a group room title followed by its member count.
var roomTitleWithCount = regexp.MustCompile(`^(.{1,20}?)\s+(\d{1,3})$`)

// RoomTitle is what the title heuristic found in the top strip of a capture.
type RoomTitle struct {
	// Name is a person's name shown as the title of a one-to-one room.
	Name string
	// Text is the raw title text.
	Text string
	// Members is the member count shown beside a group room title, 0 if absent.
	Members int
	// index of the consumed block in the classified slice, -1 when none
	index int
}

// DetectRoomTitle looks for the chat-room title: a block starting inside the
// title strip (stripTop up to stripTop+cfg.TitleStripHeight) whose centre lies
// in the middle third of the screen. A name-like title seeds the speaker of
// unlabeled left-side bubbles; a title carrying a member count marks a group.
func DetectRoomTitle(blocks []ClassifiedBlock, screenWidth, stripTop int, cfg Config) RoomTitle {
	cfg = cfg.withDefaults()
	none := RoomTitle{index: -1}
	if cfg.TitleStripHeight == 0 || screenWidth <= 0 {
		return none
	}
	lo, hi := float64(screenWidth)/3, float64(screenWidth)*2/3
	best := none
	bestTop := 0
	for i, b := range blocks {
		if b.Box.Top < stripTop || b.Box.Top >= stripTop+cfg.TitleStripHeight {
			continue
		}
		if cx := b.Box.CenterX(); cx < lo || cx > hi {
			continue
		}
		if best.index >= 0 && b.Box.Top >= bestTop {
			continue
		}
		switch {
		case b.Role == RoleNameCandidate && b.NameScore >= cfg.MinNameScore:
			best = RoomTitle{Name: b.Text, Text: b.Text, index: i}
			bestTop = b.Box.Top
		case roomTitleWithCount.MatchString(b.Text):
			m := roomTitleWithCount.FindStringSubmatch(b.Text)
			n, err := strconv.Atoi(m[2])
			if err != nil || n < 2 {
				continue
			}
			best = RoomTitle{Text: m[1], Members: n, index: i}
			bestTop = b.Box.Top
		}
	}
	return best
}

// withoutTitle drops the block consumed as the room title.
func withoutTitle(blocks []ClassifiedBlock, title RoomTitle) []ClassifiedBlock {
	if title.index < 0 || title.index >= len(blocks) {
		return blocks
	}
	out := make([]ClassifiedBlock, 0, len(blocks)-1)
	out = append(out, blocks[:title.index]...)
	return append(out, blocks[title.index+1:]...)
}

// assembly is the accumulator threaded through the bubble fold. Each step
// returns a new value; earlier values are never read again.
type assembly struct {
	bubbles            []Bubble
	lastLeftSenderName string
}

func (a assembly) withBubble(b Bubble) assembly {
	if b.Text == "" || (b.SenderName != "" && b.SenderName == b.Text) {
		return a
	}
	a.bubbles = append(a.bubbles, b)
	return a
}

func (a assembly) withName(name string) assembly {
	a.lastLeftSenderName = name
	return a
}

// step consumes one or two blocks from the head of rest.
func (a assembly) step(rest []ClassifiedBlock, nameGap int) (assembly, int) {
	cur := rest[0]
	if !cur.IsLeftSide {
		return a.withBubble(Bubble{Text: cur.Text, Y: cur.Box.Top, SenderName: MeMarker}), 1
	}
	if cur.Role == RoleNameCandidate {
		if len(rest) > 1 && pairsWith(cur, rest[1], nameGap) {
			msg := rest[1]
			return a.withName(cur.Text).withBubble(Bubble{
				Text:       msg.Text,
				Y:          cur.Box.Top,
				SenderName: cur.Text,
				IsLeftSide: true,
			}), 2
		}
		// a small name label whose message is off-screen or separated
		if cur.IsSmallFont {
			return a.withName(cur.Text), 1
		}
	}
	return a.withBubble(Bubble{
		Text:       cur.Text,
		Y:          cur.Box.Top,
		SenderName: a.lastLeftSenderName,
		IsLeftSide: true,
	}), 1
}

func pairsWith(name, next ClassifiedBlock, nameGap int) bool {
	if !next.IsLeftSide || next.Role == RoleNoise {
		return false
	}
	gap := next.Box.Top - name.Box.Top
	return gap >= 0 && gap <= nameGap
}

// SortBlocks orders blocks top to bottom, breaking ties left to right.
func SortBlocks(blocks []ClassifiedBlock) []ClassifiedBlock {
	sorted := make([]ClassifiedBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Box.Top != sorted[j].Box.Top {
			return sorted[i].Box.Top < sorted[j].Box.Top
		}
		return sorted[i].Box.Left < sorted[j].Box.Left
	})
	return sorted
}

// AssembleBubbles folds the classified blocks, top to bottom, into bubbles.
// NOISE blocks are skipped. seedName, when non-empty, is the speaker assumed
// for left-side blocks that appear before any name label.
func AssembleBubbles(blocks []ClassifiedBlock, seedName string, cfg Config) []Bubble {
	cfg = cfg.withDefaults()
	content := make([]ClassifiedBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Role != RoleNoise {
			content = append(content, b)
		}
	}
	content = SortBlocks(content)

	acc := assembly{bubbles: make([]Bubble, 0, len(content)), lastLeftSenderName: seedName}
	for i := 0; i < len(content); {
		var n int
		acc, n = acc.step(content[i:], cfg.NameGap)
		i += n
	}
	return acc.bubbles
}
