package game

import "github.com/gammazero/deque"

type NeighborGetter func(Coordinates) []Coordinates

// Visitor handles one cell of the flood, and reports whether the flood should
// continue through its neighbors
type Visitor func(Coordinates) bool

// flood visits start and then spreads breadth-first through the neighbors of
// every cell the visitor accepts. Each cell is visited at most once. The queue
// keeps the stack flat however large the flooded region gets.
func flood(start Coordinates, visit Visitor, getNeighbors NeighborGetter) {
	visited := make(map[Coordinates]struct{})
	visitQueue := deque.New[Coordinates]()

	enqueue := func(coordinates Coordinates) {
		// Don't visit, if already visited
		if _, alreadyVisited := visited[coordinates]; alreadyVisited {
			return
		}

		visited[coordinates] = struct{}{}
		visitQueue.PushBack(coordinates)
	}

	enqueue(start)
	for visitQueue.Len() > 0 {
		coordinates := visitQueue.PopFront()
		if !visit(coordinates) {
			continue
		}

		for _, neighbor := range getNeighbors(coordinates) {
			enqueue(neighbor)
		}
	}
}
