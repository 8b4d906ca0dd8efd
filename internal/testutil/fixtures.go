package testutil

import (
	"fmt"

	"github.com/rccc/rccc-search/internal/models"
)

// TestSermon creates a sermon record whose scripture mentions 愛.
func TestSermon() *models.Sermon {
	return &models.Sermon{
		Title:         "神就是愛",
		Speaker:       "王牧師",
		Scripture:     "約翰一書 4:8 神就是愛",
		Congregation:  "中文堂",
		Date:          "2019-02-10",
		RecordingLink: "https://www.rccc.org/Sermon/2019-02-10.mp3",
	}
}

// TestPage creates a generic page record from the Sunday school site.
func TestPage() *models.Page {
	return &models.Page{
		Type:    "school.rccc.org",
		Title:   "愛的真諦",
		Date:    "2020-05-01",
		Link:    "https://school.rccc.org/lesson/12",
		Snippet: "哥林多前書 13 章論<em>愛</em>",
	}
}

// TestResultSet creates n page records titled "result 1" … "result n".
func TestResultSet(n int) models.ResultSet {
	rs := make(models.ResultSet, n)
	for i := range rs {
		rs[i] = &models.Page{
			Type:  "cn.rccc.org",
			Title: fmt.Sprintf("result %d", i+1),
			Link:  fmt.Sprintf("https://cn.rccc.org/p/%d", i+1),
		}
	}
	return rs
}
