package master

import "github.com/ayasato/gekkan/internal/schedule"

// Built-in master tables: 19 categories (A–S) and the production processes
// of one monthly edition. Categories that collect material from outside
// companies carry requires_data with their submission process as the gate.

func defaultTables() Tables {
	var t Tables

	t.Categories = []Category{
		{ID: "A", Name: "表紙"},
		{ID: "B", Name: "特集"},
		{ID: "C", Name: "連載"},
		{ID: "D", Name: "インタビュー"},
		{ID: "E", Name: "タウン情報", RequiresData: true, DataTypes: []string{"店舗写真", "原稿素材"}, Gate: "E-1"},
		{ID: "F", Name: "イベント情報", RequiresData: true, DataTypes: []string{"告知素材"}, Gate: "F-1"},
		{ID: "G", Name: "読者プレゼント", RequiresData: true, DataTypes: []string{"提供画像"}, Gate: "G-1"},
		{ID: "H", Name: "広告レギュラー", RequiresData: true, DataTypes: []string{"入稿データ", "差し替え素材"}, Gate: "H-1"},
		{ID: "I", Name: "求人広告", RequiresData: true, DataTypes: []string{"求人原稿"}, Gate: "I-1"},
		{ID: "J", Name: "不動産広告", RequiresData: true, DataTypes: []string{"物件情報"}, Gate: "J-1"},
		{ID: "K", Name: "スクール特集", RequiresData: true, DataTypes: []string{"講座情報"}, Gate: "K-1"},
		{ID: "L", Name: "クーポン", RequiresData: true, DataTypes: []string{"クーポン素材"}, Gate: "L-1"},
		{ID: "M", Name: "占い"},
		{ID: "N", Name: "表4広告", RequiresData: true, DataTypes: []string{"入稿データ"}, Gate: "N-1"},
		{ID: "O", Name: "編集後記"},
		{ID: "P", Name: "校正"},
		{ID: "Q", Name: "印刷"},
		{ID: "R", Name: "配本"},
		{ID: "S", Name: "進行管理"},
	}

	dated := func(id, name, cat string) {
		t.Processes = append(t.Processes, Process{ID: id, Name: name, Category: cat, Kind: schedule.KindDated})
	}
	confirm := func(id, name, cat string) {
		t.Processes = append(t.Processes, Process{ID: id, Name: name, Category: cat, Kind: schedule.KindConfirmation})
	}

	dated("A-1", "台割確定", "A")
	dated("A-2", "表紙企画", "A")
	dated("A-3", "撮影手配", "A")
	dated("A-4", "撮影", "A")
	dated("A-5", "レタッチ", "A")
	dated("A-6", "デザイン", "A")
	dated("A-7", "内部チェック", "A")
	confirm("A-8", "先方確認", "A")

	dated("B-1", "企画会議", "B")
	dated("B-2", "取材", "B")
	dated("B-3", "原稿執筆", "B")
	dated("B-4", "文字起こし", "B")
	dated("B-5", "デザイン", "B")
	dated("B-6", "校正戻し", "B")

	dated("C-1", "原稿依頼", "C")
	dated("C-2", "原稿受領", "C")
	dated("C-3", "組版", "C")
	confirm("C-4", "著者確認", "C")

	dated("D-1", "アポイント", "D")
	dated("D-2", "取材・撮影", "D")
	dated("D-3", "文字起こし", "D")
	dated("D-4", "原稿作成", "D")
	confirm("D-5", "本人確認", "D")

	// Sections built from submitted material share one shape: submission,
	// drafting, internal check, client confirmation, fix-up.
	for _, cat := range []string{"E", "F", "G", "H", "I", "J", "K", "L", "N"} {
		dated(cat+"-1", "データ入稿", cat)
		dated(cat+"-2", "原稿作成", cat)
		dated(cat+"-3", "内部チェック", cat)
		confirm(cat+"-4", "先方確認", cat)
		dated(cat+"-5", "修正反映", cat)
	}

	dated("M-1", "原稿受領", "M")
	dated("M-2", "組版", "M")

	dated("O-1", "原稿作成", "O")
	dated("O-2", "組版", "O")

	dated("P-1", "初校", "P")
	dated("P-2", "再校", "P")
	dated("P-3", "校了", "P")

	dated("Q-1", "印刷入稿", "Q")
	dated("Q-2", "色校確認", "Q")
	dated("Q-3", "下版", "Q")

	dated("R-1", "部数確定", "R")
	dated("R-2", "配本手配", "R")

	dated("S-1", "進行表作成", "S")
	dated("S-2", "中間確認", "S")
	dated("S-3", "最終確認", "S")

	prev := func(id string, day int) {
		t.Rules = append(t.Rules, DeadlineRule{Process: id, Offset: schedule.PrevProduction, Day: day})
	}
	curr := func(id string, day int) {
		t.Rules = append(t.Rules, DeadlineRule{Process: id, Offset: schedule.CurrProduction, Day: day})
	}

	prev("A-1", 5)
	prev("A-2", 10)
	prev("A-3", 15)
	prev("A-4", 20)
	prev("A-5", 25)
	prev("A-6", 30)
	curr("A-7", 3)
	curr("A-8", 8)

	prev("B-1", 8)
	prev("B-2", 18)
	prev("B-3", 25)
	prev("B-4", 28)
	curr("B-5", 5)
	curr("B-6", 10)

	prev("C-1", 10)
	prev("C-2", 28)
	curr("C-3", 4)
	curr("C-4", 9)

	prev("D-1", 12)
	prev("D-2", 20)
	prev("D-3", 24)
	curr("D-4", 2)
	curr("D-5", 8)

	for _, cat := range []string{"E", "F", "G", "H", "I", "J", "K", "L", "N"} {
		prev(cat+"-1", 25)
		prev(cat+"-2", 30)
		curr(cat+"-3", 3)
		curr(cat+"-4", 8)
		curr(cat+"-5", 12)
	}

	curr("M-1", 1)
	curr("M-2", 5)

	curr("O-1", 8)
	curr("O-2", 10)

	curr("P-1", 10)
	curr("P-2", 14)
	curr("P-3", 16)

	curr("Q-1", 17)
	curr("Q-2", 19)
	curr("Q-3", 20)

	curr("R-1", 18)
	curr("R-2", 26)

	prev("S-1", 1)
	curr("S-2", 1)
	curr("S-3", 15)

	chain := func(ids ...string) {
		for i := 1; i < len(ids); i++ {
			t.Edges = append(t.Edges, Edge{Prereq: ids[i-1], Dependent: ids[i]})
		}
	}

	chain("A-1", "A-2", "A-3", "A-4", "A-5", "A-6", "A-7", "A-8")
	chain("B-1", "B-2", "B-3", "B-4", "B-5", "B-6")
	chain("C-1", "C-2", "C-3", "C-4")
	chain("D-1", "D-2", "D-3", "D-4", "D-5")
	for _, cat := range []string{"E", "F", "G", "H", "I", "J", "K", "L", "N"} {
		chain(cat+"-2", cat+"-3", cat+"-4", cat+"-5")
	}
	chain("M-1", "M-2")
	chain("O-1", "O-2")

	// Proofreading starts once section layouts land; sign-off waits for the
	// client confirmations and fix-ups.
	for _, pre := range []string{"A-6", "B-5", "C-3", "D-4", "M-2", "O-2"} {
		t.Edges = append(t.Edges, Edge{Prereq: pre, Dependent: "P-1"})
	}
	chain("P-1", "P-2", "P-3")
	for _, cat := range []string{"E", "F", "G", "H", "I", "J", "K", "L", "N"} {
		t.Edges = append(t.Edges, Edge{Prereq: cat + "-5", Dependent: "P-2"})
	}
	for _, pre := range []string{"A-8", "C-4", "D-5"} {
		t.Edges = append(t.Edges, Edge{Prereq: pre, Dependent: "P-3"})
	}

	chain("P-3", "Q-1", "Q-2", "Q-3")
	chain("Q-3", "R-2")
	chain("R-1", "R-2")
	chain("P-3", "S-3")

	return t
}
