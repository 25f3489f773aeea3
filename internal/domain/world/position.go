package world

import (
	"errors"
	"strconv"
)

// FarRange is returned by RangeTo for positions in different rooms.
const FarRange = 1 << 20

type Position struct {
	Room string `json:"room" yaml:"room"`
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
}

func (p Position) RangeTo(o Position) int {
	if p.Room != o.Room {
		return FarRange
	}
	return max(abs(p.X-o.X), abs(p.Y-o.Y))
}

func (p Position) InRange(o Position, r int) bool {
	return p.RangeTo(o) <= r
}

func (p Position) IsZero() bool {
	return p == Position{}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var ErrInvalidRoomName = errors.New("invalid room name")

type RoomCoord struct {
	X int
	Y int
}

// ParseRoomName maps names such as W1N1 or E3S7 onto a single grid where
// W/N coordinates are negative.
func ParseRoomName(name string) (RoomCoord, error) {
	if len(name) < 4 {
		return RoomCoord{}, ErrInvalidRoomName
	}
	h := name[0]
	if h != 'W' && h != 'E' {
		return RoomCoord{}, ErrInvalidRoomName
	}
	i := 1
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 1 || i >= len(name)-1 {
		return RoomCoord{}, ErrInvalidRoomName
	}
	x, err := strconv.Atoi(name[1:i])
	if err != nil {
		return RoomCoord{}, ErrInvalidRoomName
	}
	v := name[i]
	if v != 'N' && v != 'S' {
		return RoomCoord{}, ErrInvalidRoomName
	}
	y, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return RoomCoord{}, ErrInvalidRoomName
	}
	if h == 'W' {
		x = -x - 1
	}
	if v == 'N' {
		y = -y - 1
	}
	return RoomCoord{X: x, Y: y}, nil
}

// RoomDistance is the linear (chebyshev) distance between two rooms.
func RoomDistance(a, b string) (int, error) {
	ca, err := ParseRoomName(a)
	if err != nil {
		return 0, err
	}
	cb, err := ParseRoomName(b)
	if err != nil {
		return 0, err
	}
	return max(abs(ca.X-cb.X), abs(ca.Y-cb.Y)), nil
}
