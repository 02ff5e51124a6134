package studentstats

import "github.com/kbukum/studentstats/studentapi"

// pageCursor hands out the students of one fetched page from either end.
// Indices in [front, back] have not been taken yet.
type pageCursor struct {
	students []studentapi.Student
	front    int
	back     int
}

func newPageCursor(students []studentapi.Student) *pageCursor {
	return &pageCursor{students: students, back: len(students) - 1}
}

func (c *pageCursor) hasMore() bool {
	return c.front <= c.back
}

func (c *pageCursor) takeFront() (studentapi.Student, error) {
	if !c.hasMore() {
		return nil, errEmptyCursor
	}
	s := c.students[c.front]
	c.front++
	return s, nil
}

func (c *pageCursor) takeBack() (studentapi.Student, error) {
	if !c.hasMore() {
		return nil, errEmptyCursor
	}
	s := c.students[c.back]
	c.back--
	return s, nil
}
