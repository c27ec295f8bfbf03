package fakeapi

type pageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// springPage is the JSON shape of a Spring Data page.
type springPage[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

func paginate[T any](items []T, page, size int) springPage[T] {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	total := len(items)
	totalPages := (total + size - 1) / size

	from := min(page*size, total)
	to := min(from+size, total)
	content := make([]T, 0, to-from)
	content = append(content, items[from:to]...)

	return springPage[T]{
		Content:       content,
		Number:        page,
		Size:          size,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
		Empty:         len(content) == 0,
	}
}
