package game

// Snake is the player's body on the grid, head first.
type Snake struct {
	Body         []Cell
	Heading      Direction
	TargetLength int

	spawn          Cell
	defaultHeading Direction
}

func NewSnake(spawn Cell, heading Direction) *Snake {
	s := &Snake{spawn: spawn, defaultHeading: heading}
	s.Reset()
	return s
}

func (s *Snake) Reset() {
	s.Body = []Cell{s.spawn}
	s.Heading = s.defaultHeading
	s.TargetLength = 1
}

func (s *Snake) Head() Cell {
	return s.Body[0]
}

// SetDirection ignores an exact reversal, which would put the head on the
// neck at the next move.
func (s *Snake) SetDirection(newDir Direction) {
	if !newDir.IsUnit() || newDir.IsOpposite(s.Heading) {
		return
	}
	s.Heading = newDir
}

func (s *Snake) Move() {
	head := s.Head().Add(s.Heading)
	s.Body = append(s.Body, Cell{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = head

	if len(s.Body) > s.TargetLength {
		s.Body = s.Body[:s.TargetLength]
	}
}

// Grow takes effect on the next Move.
func (s *Snake) Grow() {
	s.TargetLength++
}

func (s *Snake) CheckCollision(gridCount int) bool {
	head := s.Head()
	if !head.InBounds(gridCount) {
		return true
	}

	for _, segment := range s.Body[1:] {
		if segment == head {
			return true
		}
	}
	return false
}

func (s *Snake) Occupies(c Cell) bool {
	for _, segment := range s.Body {
		if segment == c {
			return true
		}
	}
	return false
}
