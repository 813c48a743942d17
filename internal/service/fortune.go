package service

import (
	"math/rand"
	"sync"
	"time"
)

// FortuneResult представляет результат одного розыгрыша омикудзи
type FortuneResult struct {
	Grade       string
	Description string
	Advice      string
	Health      string
	Love        string
	Work        string
	LuckyItem   string
	LuckyColor  string
	LuckyNumber int
	Color       int
}

// fortuneGrade описывает один разряд удачи с весом выпадения
type fortuneGrade struct {
	name         string
	rate         float64
	color        int
	descriptions []string
	advice       []string
	health       []string
	love         []string
	work         []string
}

var fortuneGrades = []fortuneGrade{
	{
		name: "大吉", rate: 10, color: 0xf1c40f,
		descriptions: []string{"最高の運勢です！何をやってもうまくいく一日になるでしょう。", "輝かしい未来が待っています。思い切った挑戦が吉。"},
		advice:       []string{"迷ったら行動あるのみ！", "周りの人に感謝を伝えましょう。"},
		health:       []string{"絶好調。新しい運動を始めるのに最適です。", "体が軽い一日。"},
		love:         []string{"素敵な出会いの予感があります。", "想いを伝えるなら今日です。"},
		work:         []string{"大きな成果が期待できます。", "アイデアが冴え渡ります。"},
	},
	{
		name: "中吉", rate: 20, color: 0x2ecc71,
		descriptions: []string{"良い運勢です。堅実に進めば結果がついてきます。", "穏やかで安定した一日になりそうです。"},
		advice:       []string{"基本を大切に。", "焦らず一歩ずつ進みましょう。"},
		health:       []string{"体調は安定しています。", "軽いストレッチが吉。"},
		love:         []string{"相手の話をよく聞くと関係が深まります。", "小さな気遣いが実を結びます。"},
		work:         []string{"コツコツ積み上げた努力が認められます。", "チームワークが鍵です。"},
	},
	{
		name: "小吉", rate: 25, color: 0x3498db,
		descriptions: []string{"まずまずの運勢。小さな幸せを見つけられる日です。", "ささやかな良いことが起こりそうです。"},
		advice:       []string{"身の回りの整理整頓が運気を呼びます。", "早寝早起きを心がけて。"},
		health:       []string{"無理をしなければ問題ありません。", "水分補給を忘れずに。"},
		love:         []string{"自然体でいることが一番です。", "笑顔が幸運を呼びます。"},
		work:         []string{"確認作業を丁寧に。", "後回しにしていた仕事を片付けるチャンス。"},
	},
	{
		name: "吉", rate: 25, color: 0x1abc9c,
		descriptions: []string{"平穏な運勢です。いつも通りが一番。", "落ち着いて過ごせば良い一日になります。"},
		advice:       []string{"慣れたやり方を信じましょう。", "休息も大切な仕事のうちです。"},
		health:       []string{"今の生活リズムを保ちましょう。", "食事のバランスに気を配って。"},
		love:         []string{"今は待つ時期かもしれません。", "身近な人を大切に。"},
		work:         []string{"日々の積み重ねが信頼につながります。", "無理な背伸びは禁物です。"},
	},
	{
		name: "末吉", rate: 15, color: 0xe67e22,
		descriptions: []string{"これから運気が上向いていく兆しです。", "今日の我慢は明日の実りになります。"},
		advice:       []string{"小さな約束ほど守りましょう。", "うまくいかなくても落ち込まないで。"},
		health:       []string{"疲れを感じたら早めに休みましょう。", "温かい飲み物が吉。"},
		love:         []string{"急がば回れ。ゆっくり距離を縮めて。", "思いやりが何よりの近道です。"},
		work:         []string{"準備を整える期間と考えましょう。", "メモを取ると失敗が減ります。"},
	},
	{
		name: "凶", rate: 5, color: 0xe74c3c,
		descriptions: []string{"運気は低調ですが、用心すれば乗り切れます。", "今日は守りの一日。無理は禁物です。"},
		advice:       []string{"大事な決断は先送りにしましょう。", "困ったら信頼できる人に相談を。"},
		health:       []string{"体を冷やさないように注意。", "睡眠をしっかり取りましょう。"},
		love:         []string{"誤解が生まれやすい日。言葉を選んで。", "今日は聞き役に徹しましょう。"},
		work:         []string{"確認を二重に。慎重さが身を守ります。", "トラブルは早めの報告が吉。"},
	},
}

var luckyItems = []string{
	"四つ葉のクローバー", "赤い糸", "お気に入りのマグカップ", "新しい靴下",
	"丸い石", "ハンカチ", "観葉植物", "キーホルダー", "文庫本", "星のアクセサリー",
}

var luckyColors = []string{
	"赤", "青", "緑", "黄色", "白", "金", "銀", "桃色", "水色", "紫",
}

// Fortune представляет сервис омикудзи.
// rnd не потокобезопасен, каждая команда обрабатывается своей горутиной,
// поэтому розыгрыш идет под мьютексом.
type Fortune struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewFortune создает сервис омикудзи
func NewFortune() *Fortune {
	return &Fortune{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Draw разыгрывает омикудзи: разряд выпадает по весам,
// остальные поля выбираются равновероятно
func (f *Fortune) Draw() FortuneResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	grade := f.pickGrade()
	return FortuneResult{
		Grade:       grade.name,
		Description: pick(f.rnd, grade.descriptions),
		Advice:      pick(f.rnd, grade.advice),
		Health:      pick(f.rnd, grade.health),
		Love:        pick(f.rnd, grade.love),
		Work:        pick(f.rnd, grade.work),
		LuckyItem:   pick(f.rnd, luckyItems),
		LuckyColor:  pick(f.rnd, luckyColors),
		LuckyNumber: f.rnd.Intn(9) + 1,
		Color:       grade.color,
	}
}

func (f *Fortune) pickGrade() fortuneGrade {
	var total float64
	for _, g := range fortuneGrades {
		total += g.rate
	}

	r := f.rnd.Float64() * total
	var current float64
	for _, g := range fortuneGrades {
		current += g.rate
		if r <= current {
			return g
		}
	}
	return fortuneGrades[len(fortuneGrades)-1]
}

func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.Intn(len(values))]
}
