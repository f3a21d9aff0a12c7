package layout

import "github.com/vgmstream/vgmstream-go/internal/sbuf"

// Segmented concatenates a fixed ordered list of child streams in time, each
// played in full before the next starts. Looping, when enabled, repeats a
// contiguous sub-range [LoopStartSegment, LoopEndSegment) of that list
// instead of restarting the whole sequence, grounded on layout/segmented.c's
// render_vgmstream_segmented.
type Segmented struct {
	Children         []Child
	LoopFlag         bool
	LoopStartSegment int
	LoopEndSegment   int // exclusive: loop rewinds here after finishing segment LoopEndSegment-1

	current     int
	currentDone int
	loopCount   int
}

// NewSegmented builds a Segmented layout over children, in order.
func NewSegmented(children []Child, loopFlag bool, loopStart, loopEnd int) *Segmented {
	return &Segmented{Children: children, LoopFlag: loopFlag, LoopStartSegment: loopStart, LoopEndSegment: loopEnd}
}

func (s *Segmented) Render(dst *sbuf.Buffer, sampleCount int) (int, error) {
	done := 0
	ch := dst.Channels

	for done < sampleCount {
		if s.current >= len(s.Children) {
			dst.SilencePart(dst.Filled, sampleCount-done)
			dst.Filled += sampleCount - done
			done = sampleCount
			break
		}

		child := s.Children[s.current]
		remainingInChild := child.NumSamples() - s.currentDone
		toRequest := sampleCount - done
		if toRequest > remainingInChild {
			toRequest = remainingInChild
		}
		if toRequest <= 0 {
			s.advanceSegment()
			continue
		}

		buf := make([]float64, toRequest*ch)
		n, err := child.Render(buf, toRequest)
		if err != nil || n == 0 {
			s.advanceSegment()
			continue
		}

		copy(dst.Buf[dst.Filled*ch:(dst.Filled+n)*ch], buf[:n*ch])
		dst.Filled += n
		done += n
		s.currentDone += n

		if s.currentDone >= child.NumSamples() {
			s.advanceSegment()
		}
	}
	return done, nil
}

// advanceSegment moves to the next segment, wrapping back to the loop start
// (and resetting every segment in the loop range) once the loop's last
// segment has played, matching segmented.c's loop_segment handling.
func (s *Segmented) advanceSegment() {
	s.current++
	s.currentDone = 0

	if s.LoopFlag && s.current == s.LoopEndSegment {
		s.loopCount++
		s.current = s.LoopStartSegment
		for i := s.LoopStartSegment; i < s.LoopEndSegment && i < len(s.Children); i++ {
			s.Children[i].Reset()
		}
	}
}

func (s *Segmented) Reset() {
	for _, c := range s.Children {
		c.Reset()
	}
	s.current = 0
	s.currentDone = 0
	s.loopCount = 0
}
