package tracking

// Pixel は開封計測ビーコンとして返す1x1の透明GIF。
// メールクライアントが画像として読み込めれば良いので最小構成の43バイト。
var Pixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, // GIF89a
	0x01, 0x00, 0x01, 0x00, // 1x1
	0x80, 0x00, 0x00, // グローバルカラーテーブル(2色)
	0xff, 0xff, 0xff, 0x00, 0x00, 0x00,
	0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, // 透明指定
	0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x02, 0x02, 0x44, 0x01, 0x00, // 画像データ
	0x3b, // trailer
}
