// Package extractor turns a fetched article page into the ordered list of
// content-article titles it links to.
//
// Only links under the article prefix (by default "/wiki/") whose path holds
// no namespace separator (":") are kept, so administrative pages such as
// "Special:" or "File:" are skipped, as are fragment-only links. Titles are
// percent-decoded, underscores become spaces and the result is NFC
// normalized. Document order is preserved because the path search breaks
// ties by it.
package extractor
