// File: pkg/formatter/bucket_formatter.go
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ecsdash/pkg/storage"

	"github.com/dustin/go-humanize"
)

type BucketFormatter struct {
	now func() time.Time
}

func NewBucketFormatter() *BucketFormatter {
	return &BucketFormatter{now: time.Now}
}

func (f *BucketFormatter) FormatBucketList(buckets []storage.BucketDetail) string {
	table := NewTable([]string{"BUCKET NAME", "PROVIDER", "REGION", "VERSIONING", "CREATED", "AGE"})
	now := f.now()

	for _, bucket := range buckets {
		created := "-"
		if !bucket.CreatedAt.IsZero() {
			created = fmt.Sprintf("%s (%s)", bucket.CreatedAt.Format("2006-01-02"), humanize.RelTime(bucket.CreatedAt, now, "ago", "from now"))
		}

		table.AddRow([]string{
			bucket.Name,
			string(bucket.Provider),
			bucket.Region,
			string(bucket.Versioning),
			created,
			formatAge(bucket.AgeInDays),
		})
	}

	return table.String()
}

// Table plus a summary line when the listing was truncated
func (f *BucketFormatter) FormatBucketReport(buckets []storage.BucketDetail, totalCount int) string {
	var sb strings.Builder
	sb.WriteString(f.FormatBucketList(buckets))

	if totalCount > len(buckets) {
		sb.WriteString("\n")
		sb.WriteString(FormatSectionTitle(fmt.Sprintf("showing %s of %s buckets",
			humanize.Comma(int64(len(buckets))), humanize.Comma(int64(totalCount)))))
	}
	return sb.String()
}

func formatAge(days int) string {
	if days == 1 {
		return "1 day"
	}
	return strconv.Itoa(days) + " days"
}
