package ump

import "sort"

// Packet is one Universal MIDI Packet tagged with the sample offset within
// the current process block at which it takes effect.
type Packet struct {
	SampleOffset int32
	Words        [4]uint32
	WordCount    int
}

// FirstWord is a convenience accessor used throughout the decode helpers.
func (p Packet) FirstWord() uint32 { return p.Words[0] }

// SecondWord returns the second word, or 0 if the packet is a single word.
func (p Packet) SecondWord() uint32 {
	if p.WordCount < 2 {
		return 0
	}
	return p.Words[1]
}

// NewPacket builds a Packet from 1, 2, or 4 raw words, inferring the word
// count from the first word's message type if fewer than 4 words are
// supplied; callers that already know the count should still prefer
// passing the exact slice length.
func NewPacket(offset int32, words ...uint32) Packet {
	p := Packet{SampleOffset: offset}
	n := len(words)
	if n > 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		p.Words[i] = words[i]
	}
	p.WordCount = n
	return p
}

// Sequence is an ordered, sample-offset-addressable buffer of UMP packets
// exchanged between the sequencer, tracks, and plugin instances within one
// process block. It is not realtime-safe on its own — per-node ingress
// uses the lock-free ring in package node instead — but this shape is what
// graph- and track-level code passes around between process calls.
type Sequence struct {
	packets []Packet
	sorted  bool
}

// NewSequence returns an empty Sequence with room for n packets.
func NewSequence(capacityHint int) *Sequence {
	return &Sequence{packets: make([]Packet, 0, capacityHint)}
}

// Add appends a packet, marking the sequence for re-sort on next read.
func (s *Sequence) Add(p Packet) {
	s.packets = append(s.packets, p)
	s.sorted = false
}

// Len returns the number of packets currently buffered.
func (s *Sequence) Len() int { return len(s.packets) }

// All returns every packet in ascending sample-offset order.
func (s *Sequence) All() []Packet {
	s.ensureSorted()
	return s.packets
}

// InRange returns the packets whose SampleOffset falls in [start, end).
func (s *Sequence) InRange(start, end int32) []Packet {
	s.ensureSorted()
	lo := sort.Search(len(s.packets), func(i int) bool {
		return s.packets[i].SampleOffset >= start
	})
	hi := lo
	for hi < len(s.packets) && s.packets[hi].SampleOffset < end {
		hi++
	}
	return s.packets[lo:hi]
}

// Clear empties the sequence for reuse across process blocks.
func (s *Sequence) Clear() {
	s.packets = s.packets[:0]
	s.sorted = true
}

// RewriteGroups replaces the group nibble of every packet's first word,
// used by the sequencer to stamp outbound events with the owning plugin
// instance's assigned group before dispatch.
func (s *Sequence) RewriteGroups(group uint8) {
	for i := range s.packets {
		s.packets[i].Words[0] = WithGroup(s.packets[i].Words[0], group)
	}
}

func (s *Sequence) ensureSorted() {
	if s.sorted {
		return
	}
	sort.SliceStable(s.packets, func(i, j int) bool {
		return s.packets[i].SampleOffset < s.packets[j].SampleOffset
	})
	s.sorted = true
}
