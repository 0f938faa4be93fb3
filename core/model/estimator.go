package model

// Estimator は学習状態を持つモデルの共通インターフェース
type Estimator interface {
	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
	// Reset はモデルを未学習状態に戻す
	Reset()
}

// Persistable は保存・復元できるモデルのインターフェース
type Persistable interface {
	// Save はモデルをファイルに保存する
	Save(path string) error
	// Load はファイルからモデルを読み込む
	Load(path string) error
}
