package constants

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortAZ     SortOrder = "a-z"
	SortDate   SortOrder = "date"
)

func (o SortOrder) Valid() bool {
	switch o {
	case SortNewest, SortAZ, SortDate:
		return true
	}
	return false
}
