// Package state は、ストーリーボードセッションの所有者です。
// セッションへの全変更はこのストアを経由し、ミューテックスで直列化されます。
// 画像生成のような長時間処理の結果は世代カウンターで突き合わせ、
// 途中でショットが消された・作り直された場合の古い完了報告は黙って破棄します。
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

var (
	// ErrShotNotFound は指定IDのショットが存在しないことを示します。
	ErrShotNotFound = errors.New("指定されたショットが見つかりません")
	// ErrCharacterNotFound は指定名のキャラクターが存在しないことを示します。
	ErrCharacterNotFound = errors.New("指定されたキャラクターが見つかりません")
)

// Token は非同期処理の開始時に発行される世代チケットです。
// 完了報告時に同じチケットを返し、世代が進んでいれば結果は破棄されます。
type Token uint64

// Store はセッション状態のスレッドセーフな所有者です。
type Store struct {
	mu   sync.Mutex
	sess domain.Session

	// 世代カウンター。Begin で進み、Complete は一致した場合だけ反映される。
	shotGens map[string]Token
	charGens map[string]Token

	reader remoteio.InputReader
	writer remoteio.OutputWriter
	path   string
}

// NewStore は初期状態のストアを生成します。reader/writer が nil の場合、
// Save/Load は何もしません(テストやメモリのみの利用向け)。
func NewStore(reader remoteio.InputReader, writer remoteio.OutputWriter, path string) *Store {
	return &Store{
		sess:     domain.NewSession(),
		shotGens: make(map[string]Token),
		charGens: make(map[string]Token),
		reader:   reader,
		writer:   writer,
		path:     path,
	}
}

// Snapshot は現在のセッションの深いコピーを返します。
// 呼び出し側がコピーを変更してもストア内部には影響しません。
func (s *Store) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSession(s.sess)
}

// Update は任意の変更をロック下で適用します。単純なフィールド更新用です。
func (s *Store) Update(fn func(sess *domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.sess)
}

// ApplyPlan は構成案を取り込みます。ショットは新しいIDで実体化し、
// キャストは保持済みのポートレートを失わないよう照合統合します。
// 取り込みに成功するとプランニング画面に遷移します。
func (s *Store) ApplyPlan(plan domain.Plan, newID func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mood := plan.ChapterMood
	s.sess.Mood = &mood
	s.sess.EmotionArc = plan.EmotionArc
	s.sess.Shots = plan.Materialize(newID)
	s.sess.Characters = domain.ReconcileCast(s.sess.Characters, plan.Characters)
	s.sess.Phase = domain.PhasePlanning

	// 旧ショットの世代は無効化する。走行中の完了報告は全て迷子になる。
	s.shotGens = make(map[string]Token)
}

// SetBible は設定資料を差し替えます。
func (s *Store) SetBible(sheet *domain.ReferenceSheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.Bible = sheet
}

// UpdateShot は指定IDのショットにパッチを適用します。
func (s *Store) UpdateShot(id string, patch func(*domain.VisualItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sess.Shots {
		if s.sess.Shots[i].ID == id {
			patch(&s.sess.Shots[i])
			return nil
		}
	}
	return fmt.Errorf("%w: id=%s", ErrShotNotFound, id)
}

// UpdateCharacter は指定名のキャラクターにパッチを適用します。名前は正規化して照合します。
func (s *Store) UpdateCharacter(name string, patch func(*domain.Character)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Character{Name: name}.Key()
	for i := range s.sess.Characters {
		if s.sess.Characters[i].Key() == key {
			patch(&s.sess.Characters[i])
			return nil
		}
	}
	return fmt.Errorf("%w: name=%s", ErrCharacterNotFound, name)
}

// RemoveShot は指定IDのショットを取り除きます。走行中の生成があっても
// 世代が進むため、その完了報告は反映されません。
func (s *Store) RemoveShot(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sess.Shots {
		if s.sess.Shots[i].ID == id {
			s.sess.Shots = append(s.sess.Shots[:i], s.sess.Shots[i+1:]...)
			s.shotGens[id]++
			return nil
		}
	}
	return fmt.Errorf("%w: id=%s", ErrShotNotFound, id)
}

// BeginShot は画像生成の開始を記録し、世代チケットを発行します。
// ショットは generating 状態になります。
func (s *Store) BeginShot(id string) (Token, domain.VisualItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sess.Shots {
		if s.sess.Shots[i].ID == id {
			s.shotGens[id]++
			s.sess.Shots[i].Status = domain.StatusGenerating
			return s.shotGens[id], s.sess.Shots[i], nil
		}
	}
	return 0, domain.VisualItem{}, fmt.Errorf("%w: id=%s", ErrShotNotFound, id)
}

// CompleteShot は生成結果を反映します。チケットの世代が古い、または
// ショットが既に消えている場合は黙って破棄します。
func (s *Store) CompleteShot(id string, token Token, imageURL string, status domain.ItemStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shotGens[id] != token {
		slog.Debug("古い世代の生成結果を破棄します", "shot_id", id)
		return
	}
	for i := range s.sess.Shots {
		if s.sess.Shots[i].ID == id {
			s.sess.Shots[i].Status = status
			if imageURL != "" {
				s.sess.Shots[i].ImageURL = imageURL
			}
			return
		}
	}
}

// BeginCharacter はポートレート生成の開始を記録し、世代チケットを発行します。
func (s *Store) BeginCharacter(name string) (Token, domain.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Character{Name: name}.Key()
	for i := range s.sess.Characters {
		if s.sess.Characters[i].Key() == key {
			s.charGens[key]++
			s.sess.Characters[i].Status = domain.StatusGenerating
			return s.charGens[key], s.sess.Characters[i], nil
		}
	}
	return 0, domain.Character{}, fmt.Errorf("%w: name=%s", ErrCharacterNotFound, name)
}

// CompleteCharacter はポートレート生成の結果を反映します。世代が古ければ破棄します。
func (s *Store) CompleteCharacter(name string, token Token, imageURL string, status domain.ItemStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.Character{Name: name}.Key()
	if s.charGens[key] != token {
		slog.Debug("古い世代のポートレートを破棄します", "character", name)
		return
	}
	for i := range s.sess.Characters {
		if s.sess.Characters[i].Key() == key {
			s.sess.Characters[i].Status = status
			if imageURL != "" {
				s.sess.Characters[i].ImageURL = imageURL
			}
			return
		}
	}
}

// Reset はセッションを初期状態に戻し、全ての世代を無効化します。
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = domain.NewSession()
	s.shotGens = make(map[string]Token)
	s.charGens = make(map[string]Token)
}

// Save はセッションをJSONとして永続化します。実行中フラグは落ちた状態で保存されます。
func (s *Store) Save(ctx context.Context) error {
	if s.writer == nil {
		return nil
	}

	snapshot := s.Snapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("セッションのJSONエンコードに失敗しました: %w", err)
	}

	if err := s.writer.Write(ctx, s.path, bytes.NewReader(data), "application/json; charset=utf-8"); err != nil {
		return fmt.Errorf("セッションの書き込みに失敗しました (%s): %w", s.path, err)
	}
	return nil
}

// Load は永続化済みのセッションを読み込みます。ブロブが存在しない・壊れている
// 場合はエラーにせず、初期状態のセッションで開始します。
func (s *Store) Load(ctx context.Context) {
	if s.reader == nil {
		return
	}

	rc, err := s.reader.Open(ctx, s.path)
	if err != nil {
		slog.Info("保存済みセッションがないため初期状態で開始します", "path", s.path)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		slog.Warn("セッションの読み込みに失敗したため初期状態で開始します", "path", s.path, "error", err)
		return
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		slog.Warn("セッションのJSONが壊れているため初期状態で開始します", "path", s.path, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	s.sess.IsAnalyzingBible = false
	s.sess.IsThinking = false
}

// cloneSession はセッションの深いコピーを作ります。
func cloneSession(src domain.Session) domain.Session {
	dst := src

	if src.Mood != nil {
		mood := *src.Mood
		dst.Mood = &mood
	}
	if src.Bible != nil {
		bible := *src.Bible
		bible.Characters = append([]domain.Character(nil), src.Bible.Characters...)
		bible.Locations = append([]domain.Location(nil), src.Bible.Locations...)
		dst.Bible = &bible
	}

	dst.Characters = append([]domain.Character(nil), src.Characters...)
	dst.EmotionArc = append([]domain.EmotionPoint(nil), src.EmotionArc...)
	dst.Shots = append([]domain.VisualItem(nil), src.Shots...)
	dst.Files = append([]domain.UploadedFile(nil), src.Files...)
	dst.ContextFiles = append([]domain.UploadedFile(nil), src.ContextFiles...)

	return dst
}
