package tournament

import "errors"

// ErrNotEnoughPlayers is returned when a match needs two queued players.
var ErrNotEnoughPlayers = errors.New("at least two players are required")

// Rotate moves the first two entries to the back, keeping the rest in order.
func Rotate(queue []string) []string {
	if len(queue) < 2 {
		return append([]string(nil), queue...)
	}
	out := make([]string, 0, len(queue))
	out = append(out, queue[2:]...)
	return append(out, queue[0], queue[1])
}

// Pair returns the two players at the head of the queue.
func Pair(queue []string) (string, string, error) {
	if len(queue) < 2 {
		return "", "", ErrNotEnoughPlayers
	}
	return queue[0], queue[1], nil
}
