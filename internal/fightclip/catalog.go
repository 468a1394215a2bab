package fightclip

import "fmt"

type CharacterPreset struct {
	Key               string
	Name              string
	Role              string
	NationalityStyle  string
	VisualBrief       string
	MotionPersonality string
}

type StylePreset struct {
	Key         string
	Label       string
	StyleTags   []string
	Description string
}

type ComboPreset struct {
	Key             string
	Label           string
	Description     string
	DefaultDuration float64 // seconds
}

type CameraPreset struct {
	Key          string
	Label        string
	ShotTemplate string
	Description  string
}

type NamedOption struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// UnknownPresetError is returned when a lookup key is absent from its
// catalog. The request that carried the key is abandoned, never repaired.
type UnknownPresetError struct {
	Kind string
	Key  string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown %s preset: %q", e.Kind, e.Key)
}

var characterOrder = []string{
	"female_cn_sanda",
	"male_us_mma",
	"male_hk_80s_thug",
	"female_wuxia_swordswoman",
	"male_cn_street_punk",
	"male_cn_street_big",
}

var characters = map[string]CharacterPreset{
	"female_cn_sanda": {
		Key:              "female_cn_sanda",
		Name:             "女主 - 中国散打",
		Role:             "female_pro_fighter",
		NationalityStyle: "Chinese modern",
		VisualBrief: "22-year-old athletic Chinese woman with a long black ponytail, " +
			"wearing a black sports bra, tight black training pants and black MMA gloves, " +
			"light sweat on her skin",
		MotionPersonality: "sharp_and_calm",
	},
	"male_us_mma": {
		Key:              "male_us_mma",
		Name:             "男对手 - 美国 MMA",
		Role:             "male_fighter",
		NationalityStyle: "US MMA",
		VisualBrief: "stocky male fighter in his late 20s with short dark hair and slight beard stubble, " +
			"wearing red fight shorts and 4oz MMA gloves",
		MotionPersonality: "aggressive_but_tiring",
	},
	"male_hk_80s_thug": {
		Key:              "male_hk_80s_thug",
		Name:             "男对手 - 港片小混混",
		Role:             "male_thug",
		NationalityStyle: "Hong Kong 1980s",
		VisualBrief: "lean Hong Kong street thug in a wrinkled white shirt, loose dark trousers and worn leather shoes, " +
			"slightly messy hair",
		MotionPersonality: "wild_and_showoff",
	},
	"female_wuxia_swordswoman": {
		Key:              "female_wuxia_swordswoman",
		Name:             "女主 - 武侠女侠",
		Role:             "female_swordswoman",
		NationalityStyle: "Chinese ancient wuxia",
		VisualBrief: "elegant young swordswoman in flowing light-colored robes, " +
			"long black hair tied partly up, sword sheath on her back",
		MotionPersonality: "graceful_but_deadly",
	},
	"male_cn_street_punk": {
		Key:              "male_cn_street_punk",
		Name:             "男角色 - 现代街头混混",
		Role:             "male_street_punk",
		NationalityStyle: "Chinese modern street",
		VisualBrief: "young Chinese street punk in a dark hoodie, ripped jeans and sneakers, " +
			"short spiky hair, a bit cocky",
		MotionPersonality: "reckless_and_aggressive",
	},
	"male_cn_street_big": {
		Key:              "male_cn_street_big",
		Name:             "男角色 - 现代街头壮汉",
		Role:             "male_street_heavy",
		NationalityStyle: "Chinese modern street",
		VisualBrief: "broad-shouldered Chinese man in a bomber jacket, dark pants and boots, " +
			"short hair, heavy build",
		MotionPersonality: "slow_but_powerful",
	},
}

var styleOrder = []string{
	"cn_modern_sanda_gym",
	"hk_80s_factory",
	"cn_wuxia_courtyard",
	"us_mma_cage",
	"cn_modern_street_night",
}

var styles = map[string]StylePreset{
	"cn_modern_sanda_gym": {
		Key:         "cn_modern_sanda_gym",
		Label:       "中国现代 - 散打馆",
		StyleTags:   []string{"cn_modern_sanda", "gym_interior", "cinematic"},
		Description: "现代中国散打训练馆，冷色荧光灯、沙袋、擂台、镜面墙。",
	},
	"hk_80s_factory": {
		Key:         "hk_80s_factory",
		Label:       "香港 80s - 工厂/仓库",
		StyleTags:   []string{"hk_80s_kungfu", "warehouse", "stylized"},
		Description: "80年代港片风格，老工厂或仓库，木箱、铁链、灰尘光束。",
	},
	"cn_wuxia_courtyard": {
		Key:         "cn_wuxia_courtyard",
		Label:       "古代武侠 - 山门/院落",
		StyleTags:   []string{"cn_wuxia", "ancient_courtyard", "fantasy_cinematic"},
		Description: "古代武林门派山门或庭院，石板地、木柱、飘动的布幡和树叶。",
	},
	"us_mma_cage": {
		Key:         "us_mma_cage",
		Label:       "美国 UFC 笼斗",
		StyleTags:   []string{"us_mma", "cage_arena", "sports_cinematic"},
		Description: "MMA 笼子擂台，强烈顶光，周围观众在黑暗中吼叫。",
	},
	"cn_modern_street_night": {
		Key:         "cn_modern_street_night",
		Label:       "中国现代 - 夜晚街头停车场",
		StyleTags:   []string{"cn_modern_street", "parking_lot_night", "gritty_cinematic"},
		Description: "城市夜晚空旷停车场，路灯、霓虹反射在湿漉漉地面，适合街头群殴。",
	},
}

var comboOrder = []string{
	"combo_jab_cross_lowkick",
	"combo_block_cross",
	"combo_clinch_knee_push",
	"combo_wuxia_qinggong_sword",
	"combo_street_brawl_3p",
}

var combos = map[string]ComboPreset{
	"combo_jab_cross_lowkick": {
		Key:   "combo_jab_cross_lowkick",
		Label: "直拳 + 重拳 + 低扫",
		Description: "a fast left jab to the face, a heavy right cross, " +
			"then a powerful right low kick to the lead thigh",
		DefaultDuration: 1.8,
	},
	"combo_block_cross": {
		Key:   "combo_block_cross",
		Label: "格挡 + 右重拳反击",
		Description: "she blocks an incoming strike, then fires a heavy right cross " +
			"to the opponent's head",
		DefaultDuration: 1.2,
	},
	"combo_clinch_knee_push": {
		Key:   "combo_clinch_knee_push",
		Label: "抱颈 + 膝撞 + 推开",
		Description: "she secures a clinch, drives a hard knee into the body, " +
			"then shoves the opponent away",
		DefaultDuration: 1.8,
	},
	"combo_wuxia_qinggong_sword": {
		Key:   "combo_wuxia_qinggong_sword",
		Label: "武侠轻功：闪身 + 拔剑 + 腾空一击",
		Description: "she uses light-footwork to vanish from the opponent's line of attack, " +
			"appears at a new angle, draws her sword in one fluid motion, then launches into " +
			"a brief airborne slash before landing lightly on a stone railing",
		DefaultDuration: 2.8,
	},
	"combo_street_brawl_3p": {
		Key:   "combo_street_brawl_3p",
		Label: "街头群殴：一打二组合",
		Description: "the main fighter faces two attackers at once: she elbows the attacker on her left, " +
			"then front-kicks the one on her right, before grabbing one of them and shoving him " +
			"hard into a parked car",
		DefaultDuration: 2.5,
	},
}

var cameraOrder = []string{
	"dynamic_close",
	"wide_reveal",
	"street_brawl_dynamic",
}

var cameras = map[string]CameraPreset{
	"dynamic_close": {
		Key:          "dynamic_close",
		Label:        "动态近景格斗风",
		ShotTemplate: "jab_cross_lowkick",
		Description:  "手持近景 + 低机位跟腿 + 中景收尾。",
	},
	"wide_reveal": {
		Key:          "wide_reveal",
		Label:        "宽幅环境展示风",
		ShotTemplate: "wide_focus",
		Description:  "开头环境大全景，中景打斗，最后拉远。",
	},
	"street_brawl_dynamic": {
		Key:          "street_brawl_dynamic",
		Label:        "街头群殴 - 混乱动态运镜",
		ShotTemplate: "street_brawl_3p",
		Description:  "略带手持抖动的大景 + 中景切换，突出一打二的混乱感和被撞车辆等环境反馈。",
	},
}

func CharacterOptions() []NamedOption {
	out := make([]NamedOption, 0, len(characterOrder))
	for _, key := range characterOrder {
		if c, ok := characters[key]; ok {
			out = append(out, NamedOption{Key: key, Name: c.Name})
		}
	}
	return out
}

func StyleOptions() []NamedOption {
	out := make([]NamedOption, 0, len(styleOrder))
	for _, key := range styleOrder {
		if s, ok := styles[key]; ok {
			out = append(out, NamedOption{Key: key, Name: s.Label})
		}
	}
	return out
}

func ComboOptions() []NamedOption {
	out := make([]NamedOption, 0, len(comboOrder))
	for _, key := range comboOrder {
		if c, ok := combos[key]; ok {
			out = append(out, NamedOption{Key: key, Name: c.Label})
		}
	}
	return out
}

func CameraOptions() []NamedOption {
	out := make([]NamedOption, 0, len(cameraOrder))
	for _, key := range cameraOrder {
		if c, ok := cameras[key]; ok {
			out = append(out, NamedOption{Key: key, Name: c.Label})
		}
	}
	return out
}

func CharacterByKey(key string) (CharacterPreset, error) {
	c, ok := characters[key]
	if !ok {
		return CharacterPreset{}, &UnknownPresetError{Kind: "character", Key: key}
	}
	return c, nil
}

func StyleByKey(key string) (StylePreset, error) {
	s, ok := styles[key]
	if !ok {
		return StylePreset{}, &UnknownPresetError{Kind: "style", Key: key}
	}
	s.StyleTags = append([]string(nil), s.StyleTags...)
	return s, nil
}

func ComboByKey(key string) (ComboPreset, error) {
	c, ok := combos[key]
	if !ok {
		return ComboPreset{}, &UnknownPresetError{Kind: "combo", Key: key}
	}
	return c, nil
}

func CameraByKey(key string) (CameraPreset, error) {
	c, ok := cameras[key]
	if !ok {
		return CameraPreset{}, &UnknownPresetError{Kind: "camera", Key: key}
	}
	return c, nil
}
