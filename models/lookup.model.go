package models

// Lookup is one value of a fixed enumeration. ID 1 is always the "---"
// placeholder, which is never a valid choice.
type Lookup struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

const LookupUnselected uint = 1

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

type SalesStatus struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

type ShippingFeeStatus struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

type Prefecture struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

type ScheduledDelivery struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// LookupSet is an ordered enumeration keyed by kind.
type LookupSet struct {
	Kind   string
	Values []Lookup
}

// Find returns the value for id, or false when id is unknown.
func (s LookupSet) Find(id uint) (Lookup, bool) {
	for _, v := range s.Values {
		if v.ID == id {
			return v, true
		}
	}
	return Lookup{}, false
}

// Valid reports whether id names a selectable value.
func (s LookupSet) Valid(id uint) bool {
	_, ok := s.Find(id)
	return ok && id != LookupUnselected
}

// Name returns the display name for id, or "" when unknown.
func (s LookupSet) Name(id uint) string {
	v, _ := s.Find(id)
	return v.Name
}

func newLookupSet(kind string, names ...string) LookupSet {
	values := make([]Lookup, 0, len(names)+1)
	values = append(values, Lookup{ID: LookupUnselected, Name: "---"})
	for i, n := range names {
		values = append(values, Lookup{ID: uint(i + 2), Name: n})
	}
	return LookupSet{Kind: kind, Values: values}
}

var (
	Categories = newLookupSet("categories",
		"レディース", "メンズ", "ベビー・キッズ", "インテリア・住まい・小物", "本・音楽・ゲーム",
		"おもちゃ・ホビー・グッズ", "家電・スマホ・カメラ", "スポーツ・レジャー", "ハンドメイド", "その他")

	SalesStatuses = newLookupSet("sales_statuses",
		"新品、未使用", "未使用に近い", "目立った傷や汚れなし", "やや傷や汚れあり", "傷や汚れあり", "全体的に状態が悪い")

	ShippingFeeStatuses = newLookupSet("shipping_fee_statuses",
		"着払い(購入者負担)", "送料込み(出品者負担)")

	Prefectures = newLookupSet("prefectures",
		"北海道", "青森県", "岩手県", "宮城県", "秋田県", "山形県", "福島県",
		"茨城県", "栃木県", "群馬県", "埼玉県", "千葉県", "東京都", "神奈川県",
		"新潟県", "富山県", "石川県", "福井県", "山梨県", "長野県",
		"岐阜県", "静岡県", "愛知県", "三重県",
		"滋賀県", "京都府", "大阪府", "兵庫県", "奈良県", "和歌山県",
		"鳥取県", "島根県", "岡山県", "広島県", "山口県",
		"徳島県", "香川県", "愛媛県", "高知県",
		"福岡県", "佐賀県", "長崎県", "熊本県", "大分県", "宮崎県", "鹿児島県", "沖縄県")

	ScheduledDeliveries = newLookupSet("scheduled_deliveries",
		"1~2日で発送", "2~3日で発送", "4~7日で発送")
)

// LookupSets maps each kind to its enumeration.
var LookupSets = map[string]LookupSet{
	Categories.Kind:          Categories,
	SalesStatuses.Kind:       SalesStatuses,
	ShippingFeeStatuses.Kind: ShippingFeeStatuses,
	Prefectures.Kind:         Prefectures,
	ScheduledDeliveries.Kind: ScheduledDeliveries,
}
