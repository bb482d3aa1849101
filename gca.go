package sudscale

//isConflict reports whether two stripes read from a common node
func isConflict(arr1, arr2 []int) bool {
	for i := range arr1 {
		for j := range arr2 {
			if arr1[i] == arr2[j] {
				return true
			}
		}
	}
	return false
}

//graphGenerator links every pair of stripes sharing a reader
func graphGenerator(stripes []int, readers map[int][]int) map[int][]int {
	graph := make(map[int][]int)
	for a, s1 := range stripes {
		for _, s2 := range stripes[a+1:] {
			if isConflict(readers[s1], readers[s2]) {
				graph[s1] = append(graph[s1], s2)
				graph[s2] = append(graph[s2], s1)
			}
		}
	}
	return graph
}

//colorStripes gives every stripe, in order, the smallest time slice
//none of its neighbours holds
func colorStripes(stripes []int, readers map[int][]int) [][]int {
	graph := graphGenerator(stripes, readers)
	color := make(map[int]int, len(stripes))
	var order [][]int
	record := IntSet{}
	for _, cur := range stripes {
		record.Clear()
		for _, neig := range graph[cur] {
			if c, ok := color[neig]; ok {
				record.Insert(c)
			}
		}
		t := 0
		for record.Exist(t) {
			t++
		}
		color[cur] = t
		if t == len(order) {
			order = append(order, nil)
		}
		order[t] = append(order[t], cur)
	}
	return order
}
