package util

// Unique removes duplicate elements, keeping the first occurrence order
// Unique 移除切片中的重复元素，保留首次出现的顺序
func Unique[T comparable](arr []T) []T {
	result := make([]T, 0, len(arr))
	seen := make(map[T]struct{}, len(arr))
	for _, v := range arr {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
