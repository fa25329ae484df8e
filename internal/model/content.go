package model

// コンテンツ種別 (クイズ・進捗の対象を区別するディスクリミネータ)
const (
	ContentTypeTopic   = "topic"
	ContentTypeGrammar = "grammar"
	// 旧クライアント互換のエイリアス (進捗statsのみ受理)
	ContentTypeGrammarLessonAlias = "grammar_lesson"
)

// NormalizeContentType はエイリアスを正規の種別へ変換します。
// 未知の種別は空文字を返します。
func NormalizeContentType(contentType string) string {
	switch contentType {
	case ContentTypeTopic:
		return ContentTypeTopic
	case ContentTypeGrammar, ContentTypeGrammarLessonAlias:
		return ContentTypeGrammar
	default:
		return ""
	}
}
