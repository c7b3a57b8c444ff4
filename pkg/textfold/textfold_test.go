package textfold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarks(t *testing.T) {
	assert.Equal(t, "Cong nghe Thong tin", StripMarks("Công nghệ Thông tin"))
	assert.Equal(t, "Da Nang", StripMarks("Đà Nẵng"))
}

func TestContainsIgnoresCaseAndMarks(t *testing.T) {
	assert.True(t, Contains("Khoa Công nghệ Thông tin", "cong nghe"))
	assert.True(t, Contains("Computer Science", "SCIENCE"))
	assert.True(t, Contains("anything", "  "))
	assert.False(t, Contains("Kinh tế", "luật"))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("cs", "Khoa học máy tính", "CS", "Computer Science"))
	assert.False(t, ContainsAny("xyz", "IT", "Information Technology"))
	assert.True(t, ContainsAny(""))
}
