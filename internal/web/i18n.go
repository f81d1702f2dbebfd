package web

// translations holds the UI strings per language. Thai is the default; the
// language cookie switches to English and survives login and logout.
var translations = map[string]map[string]string{
	"en": {
		"title":            "Solar Power Dashboard",
		"username":         "Username",
		"password":         "Password",
		"sign_in":          "Sign in",
		"select_station":   "Select a station",
		"logout":           "Log out",
		"admin_console":    "User Management",
		"create_user":      "Create user",
		"delete":           "Delete",
		"assigned":         "Assigned dashboard",
		"stations":         "Stations",
		"opening_date":     "Opening date",
		"save":             "Save",
		"clear":            "Clear",
		"day_power":        "Today's generation (kWh)",
		"month_power":      "This month (kWh)",
		"total_power":      "Total generation (kWh)",
		"day_income":       "Today's income (THB)",
		"total_income":     "Total income (THB)",
		"equivalent_trees": "Equivalent trees planted",
		"co2_avoided":      "CO2 avoided (t)",
		"day_use_energy":   "Self-consumed today (kWh)",
		"day_on_grid":      "Exported to grid today (kWh)",
		"fetched_at":       "Data as of",
		"no_data":          "No data available yet",
		"pick_date":        "View another date",
		"show":             "Show",
		"today":            "Back to today",
		"notice-session-expired": "Your session has expired. Please sign in again.",
		"notice-access-denied":   "You do not have access to that page.",
		"notice-verify-failed":   "Could not verify your access. Please sign in again.",
		"flash-user-created":     "User created.",
		"flash-user-deleted":     "User deleted.",
		"flash-date-saved":       "Opening date saved.",
	},
	"th": {
		"title":            "แดชบอร์ดพลังงานแสงอาทิตย์",
		"username":         "ชื่อผู้ใช้",
		"password":         "รหัสผ่าน",
		"sign_in":          "เข้าสู่ระบบ",
		"select_station":   "เลือกสถานี",
		"logout":           "ออกจากระบบ",
		"admin_console":    "จัดการผู้ใช้",
		"create_user":      "สร้างผู้ใช้",
		"delete":           "ลบ",
		"assigned":         "แดชบอร์ดที่กำหนด",
		"stations":         "สถานี",
		"opening_date":     "วันที่เปิดใช้งาน",
		"save":             "บันทึก",
		"clear":            "ล้าง",
		"day_power":        "พลังงานวันนี้ (kWh)",
		"month_power":      "เดือนนี้ (kWh)",
		"total_power":      "พลังงานสะสม (kWh)",
		"day_income":       "รายได้วันนี้ (บาท)",
		"total_income":     "รายได้สะสม (บาท)",
		"equivalent_trees": "เทียบเท่าปลูกต้นไม้ (ต้น)",
		"co2_avoided":      "ลดคาร์บอน (ตัน)",
		"day_use_energy":   "ใช้เองวันนี้ (kWh)",
		"day_on_grid":      "ขายเข้ากริดวันนี้ (kWh)",
		"fetched_at":       "ข้อมูล ณ เวลา",
		"no_data":          "ยังไม่มีข้อมูล",
		"pick_date":        "ดูวันอื่น",
		"show":             "แสดง",
		"today":            "กลับไปวันนี้",
		"notice-session-expired": "เซสชันหมดอายุ กรุณาเข้าสู่ระบบอีกครั้ง",
		"notice-access-denied":   "คุณไม่มีสิทธิ์เข้าถึงหน้านี้",
		"notice-verify-failed":   "ตรวจสอบสิทธิ์ไม่สำเร็จ กรุณาเข้าสู่ระบบอีกครั้ง",
		"flash-user-created":     "สร้างผู้ใช้สำเร็จ",
		"flash-user-deleted":     "ลบผู้ใช้สำเร็จ",
		"flash-date-saved":       "บันทึกวันที่เปิดใช้งานแล้ว",
	},
}

const defaultLang = "th"

// textsFor returns the string table for a language, falling back to the
// default for anything unrecognized.
func textsFor(lang string) map[string]string {
	if t, ok := translations[lang]; ok {
		return t
	}
	return translations[defaultLang]
}

// validLang reports whether lang is a supported language code.
func validLang(lang string) bool {
	_, ok := translations[lang]
	return ok
}
