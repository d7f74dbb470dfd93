package cache

import "fmt"

func TermCoursesKey(termID int) string {
	return fmt.Sprintf("term:%d:courses", termID)
}
