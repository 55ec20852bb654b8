// Package schema defines the fixed column layout shared by both pipeline
// stages: which positions of the raw dump are retained, the semantic name
// each one is written under, and the minimum width a raw row must have.
package schema

// Column binds a positional index in the raw input to the semantic name the
// value is written under in partition files.
type Column struct {
	Index int
	Name  string
}

// ColumnSchema is an ordered list of retained columns. Order defines the
// output column order of every partition row.
type ColumnSchema []Column

// Header returns the semantic names in output order, suitable for writing as
// the first row of a partition.
func (s ColumnSchema) Header() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// MinFields returns the minimum number of fields a raw row must carry to be
// usable: one past the highest retained index. Shorter rows are malformed.
func (s ColumnSchema) MinFields() int {
	max := -1
	for _, c := range s {
		if c.Index > max {
			max = c.Index
		}
	}
	return max + 1
}

// Index returns the output position of the named column, or -1 if the schema
// does not carry it.
func (s ColumnSchema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Semantic names of the catalog columns, shared between the partition writer
// and the load stage's header lookup.
const (
	ColVideoURL     = "video_url"
	ColTitle        = "title"
	ColDuration     = "duration"
	ColThumbnailURL = "thumbnail_url"
	ColEmbedCode    = "embed_code"
	ColTags         = "tags"
	ColActors       = "actors"
	ColViews        = "views"
	ColCategory     = "category"
	ColQuality      = "quality"
	ColUploader     = "uploader"
	ColEmptyField   = "empty_field"
	ColPublishDate  = "publish_date"
	ColThumbnail2   = "thumbnail_url_2"
	ColStatus       = "status"
)

// Catalog is the column layout of the raw media dump. All fifteen source
// positions are retained; the load stage decides which ones it derives from.
func Catalog() ColumnSchema {
	return ColumnSchema{
		{0, ColVideoURL},
		{1, ColTitle},
		{2, ColDuration},
		{3, ColThumbnailURL},
		{4, ColEmbedCode},
		{5, ColTags},
		{6, ColActors},
		{7, ColViews},
		{8, ColCategory},
		{9, ColQuality},
		{10, ColUploader},
		{11, ColEmptyField},
		{12, ColPublishDate},
		{13, ColThumbnail2},
		{14, ColStatus},
	}
}
