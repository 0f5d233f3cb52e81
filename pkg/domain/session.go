package domain

// WorkflowPhase は、アプリケーションの大きな画面状態です。
type WorkflowPhase string

const (
	PhaseInput    WorkflowPhase = "input"
	PhasePlanning WorkflowPhase = "planning"
)

// PlanningTab は、プラン画面内のアクティブなタブです。
type PlanningTab string

const (
	TabStoryboard PlanningTab = "storyboard"
	TabCharacters PlanningTab = "characters"
)

// Profile は、生成する映像の出力プロファイル（画風テンプレートのキー）です。
type Profile string

const (
	ProfileNovelExplanation Profile = "Novel Explanation"
	ProfileAnimeRecap       Profile = "Anime Recap"
	ProfileManhwaSummary    Profile = "Manhwa Summary"
)

// Valid は既知のプロファイルかどうかを返します。
func (p Profile) Valid() bool {
	switch p {
	case ProfileNovelExplanation, ProfileAnimeRecap, ProfileManhwaSummary:
		return true
	}
	return false
}

// WorkMeta は、作品レベルのメタデータ（タイトル・著者・ジャンル）です。
// タイトルの有無が Web 検索グラウンディングの分岐条件になります。
type WorkMeta struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// Session は、ワークフロー全体の状態を集約します。ページ再読込をまたいで
// 1つのJSONブロブとして永続化されます。
//
// IsAnalyzingBible と IsThinking は実行中フラグであり、永続化には含めません
// （保存時に除外され、読込後は必ず false）。
type Session struct {
	Phase        WorkflowPhase  `json:"step"`
	ActiveTab    PlanningTab    `json:"planning_tab"`
	ChapterText  string         `json:"chapter_text"`
	ContextNotes string         `json:"context_text"`
	Meta         WorkMeta       `json:"meta"`
	Profile      Profile        `json:"selected_profile"`
	AspectRatio  string         `json:"image_aspect_ratio"`
	Mood         *ChapterMood   `json:"mood"`
	Characters   []Character    `json:"characters"`
	EmotionArc   []EmotionPoint `json:"emotion_arc"`
	Shots        []VisualItem   `json:"visuals"`
	Files        []UploadedFile `json:"files"`
	ContextFiles []UploadedFile `json:"context_files"`
	Bible        *ReferenceSheet `json:"bible"`

	IsAnalyzingBible bool `json:"-"`
	IsThinking       bool `json:"-"`
}

// NewSession は、初期状態のセッションを返します。
// 永続化ブロブが存在しない・壊れている場合のフォールバックもこの状態です。
func NewSession() Session {
	return Session{
		Phase:       PhaseInput,
		ActiveTab:   TabStoryboard,
		Profile:     ProfileNovelExplanation,
		AspectRatio: "16:9",
	}
}
