package transkribus

import "github.com/beevik/etree"

// Collection is a Transkribus collection.
type Collection struct {
	ID            int    `json:"colId"`
	Name          string `json:"colName"`
	Description   string `json:"description,omitempty"`
	NrOfDocuments int    `json:"nrOfDocuments,omitempty"`
}

// DocumentSummary is one entry of a collection's document list.
type DocumentSummary struct {
	DocID        int    `json:"docId"`
	Title        string `json:"title"`
	NrOfPages    int    `json:"nrOfPages"`
	Uploader     string `json:"uploader,omitempty"`
	NrOfNew      int    `json:"nrOfNew"`
	NrOfInProg   int    `json:"nrOfInProgress"`
	NrOfDone     int    `json:"nrOfDone"`
	NrOfFinal    int    `json:"nrOfFinal"`
	NrOfGT       int    `json:"nrOfGT"`
	ThumbURL     string `json:"thumbUrl,omitempty"`
	UploadTimeMs int64  `json:"uploadTimestamp,omitempty"`
}

// TranscribedPages counts pages that have left status NEW.
func (d DocumentSummary) TranscribedPages() int {
	return d.NrOfInProg + d.NrOfDone + d.NrOfFinal + d.NrOfGT
}

// Page is the projection of one fulldoc page entry.
type Page struct {
	PageID   int    `mapstructure:"pageId" json:"page_id"`
	DocID    int    `mapstructure:"docId" json:"doc_id"`
	PageNr   int    `mapstructure:"pageNr" json:"page_nr"`
	ThumbURL string `mapstructure:"thumbUrl" json:"thumb"`
}

// DocumentOverview is the fulldoc response plus its projected pages.
type DocumentOverview struct {
	Raw   map[string]any
	Pages []Page
}

// PageDetail describes one page and where its image and latest transcript live.
type PageDetail struct {
	ColID         int
	DocID         int
	PageNumber    string
	DocURL        string
	PageID        int
	ImageURL      string
	ThumbURL      string
	TranscriptURL string
}

// Transcript is a page detail together with its PAGE XML and text lines.
type Transcript struct {
	Page         PageDetail
	PageDocument *etree.Document
	Lines        []string
}

// DocumentStatus is one row of a collection status report.
type DocumentStatus struct {
	ColID            int    `json:"col_id" yaml:"col_id" parquet:"col_id"`
	ColName          string `json:"col_name" yaml:"col_name" parquet:"col_name"`
	DocID            int    `json:"doc_id" yaml:"doc_id" parquet:"doc_id"`
	Title            string `json:"title" yaml:"title" parquet:"title"`
	Pages            int    `json:"pages" yaml:"pages" parquet:"pages"`
	TranscribedPages int    `json:"transcribed_pages" yaml:"transcribed_pages" parquet:"transcribed_pages"`
	MeetsThreshold   bool   `json:"meets_threshold" yaml:"meets_threshold" parquet:"meets_threshold"`
}
