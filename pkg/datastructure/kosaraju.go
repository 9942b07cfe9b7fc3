package datastructure

// runKosaraju labels every vertex with its strongly connected component over the out arcs.
// Component ids are dense, in the order the components are discovered.
func (g *Graph) runKosaraju() {
	n := g.NumberOfVertices()
	sccs := make([]Index, n)
	if n == 0 {
		g.sccs = sccs
		return
	}

	// first pass: vertices in increasing dfs finish time
	order := make([]Index, 0, n)
	visited := make([]bool, n)
	type frame struct {
		u    Index
		next Index
	}
	stack := make([]frame, 0, 64)
	for s := 0; s < n; s++ {
		if visited[s] {
			continue
		}
		visited[s] = true
		stack = append(stack, frame{u: Index(s), next: g.vertices[s].firstOut})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			end := g.vertices[top.u+1].firstOut
			pushed := false
			for top.next < end {
				v := g.outArcs[top.next].head
				top.next++
				if !visited[v] {
					visited[v] = true
					stack = append(stack, frame{u: v, next: g.vertices[v].firstOut})
					pushed = true
					break
				}
			}
			if !pushed {
				order = append(order, top.u)
				stack = stack[:len(stack)-1]
			}
		}
	}

	// transpose as a compressed sparse row
	firstIn := make([]Index, n+1)
	for i := range g.outArcs {
		firstIn[g.outArcs[i].head+1]++
	}
	for v := 1; v <= n; v++ {
		firstIn[v] += firstIn[v-1]
	}
	inTails := make([]Index, len(g.outArcs))
	fill := make([]Index, n)
	copy(fill, firstIn[:n])
	for u := 0; u < n; u++ {
		for i := g.vertices[u].firstOut; i < g.vertices[u+1].firstOut; i++ {
			v := g.outArcs[i].head
			inTails[fill[v]] = Index(u)
			fill[v]++
		}
	}

	// second pass on the transpose, by decreasing finish time
	assigned := make([]bool, n)
	component := Index(0)
	queue := make([]Index, 0, 64)
	for i := len(order) - 1; i >= 0; i-- {
		s := order[i]
		if assigned[s] {
			continue
		}
		assigned[s] = true
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			u := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			sccs[u] = component
			for j := firstIn[u]; j < firstIn[u+1]; j++ {
				if t := inTails[j]; !assigned[t] {
					assigned[t] = true
					queue = append(queue, t)
				}
			}
		}
		component++
	}

	g.sccs = sccs
	g.numSCCs = int(component)
}

func (g *Graph) GetSCCOfAVertex(u Index) Index {
	return g.sccs[u]
}

func (g *Graph) NumberOfSCCs() int {
	return g.numSCCs
}

// VerticesAreConnected reports whether t can be reached from s and s from t.
func (g *Graph) VerticesAreConnected(s, t Index) bool {
	return g.sccs[s] == g.sccs[t]
}

// LargestSCCSize returns the vertex count of the biggest strongly connected component.
func (g *Graph) LargestSCCSize() int {
	sizes := make([]int, g.numSCCs)
	largest := 0
	for _, c := range g.sccs {
		sizes[c]++
		largest = max(largest, sizes[c])
	}
	return largest
}
