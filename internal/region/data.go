package region

// parentTable lists the 18 districts in canonical order.
var parentTable = []struct{ id, name string }{
	{"CW", "Central and Western"},
	{"WC", "Wan Chai"},
	{"E", "Eastern"},
	{"S", "Southern"},
	{"YTM", "Yau Tsim Mong"},
	{"SSP", "Sham Shui Po"},
	{"KC", "Kowloon City"},
	{"WTS", "Wong Tai Sin"},
	{"KT", "Kwun Tong"},
	{"TW", "Tsuen Wan"},
	{"TM", "Tuen Mun"},
	{"YL", "Yuen Long"},
	{"N", "North"},
	{"TP", "Tai Po"},
	{"ST", "Sha Tin"},
	{"SK", "Sai Kung"},
	{"K", "Kwai Tsing"},
	{"I", "Islands"},
}

// tpuTable is the stylized TPU geometry in a 300x300 viewport. Paths are
// hand-drawn approximations, not survey data.
var tpuTable = []struct{ id, parent, name, path string }{
	// Hong Kong Island
	{"CW_1", "CW", "Kennedy Town", "M130,225 L140,225 L142,235 L130,235 Z"},
	{"CW_2", "CW", "Sheung Wan", "M140,225 L150,225 L150,235 L142,235 Z"},
	{"CW_3", "CW", "Mid-levels West", "M135,235 L150,235 L150,245 L135,245 Z"},
	{"WC_1", "WC", "Wan Chai", "M150,227 L160,227 L160,235 L150,235 Z"},
	{"WC_2", "WC", "Causeway Bay", "M160,227 L170,227 L170,235 L160,235 Z"},
	{"WC_3", "WC", "Happy Valley", "M155,235 L170,235 L165,245 L155,245 Z"},
	{"E_1", "E", "North Point", "M170,228 L185,228 L185,235 L170,235 Z"},
	{"E_2", "E", "Quarry Bay", "M185,228 L200,230 L195,240 L185,235 Z"},
	{"E_3", "E", "Chai Wan", "M200,230 L210,235 L205,245 L195,240 Z"},
	{"E_4", "E", "Shau Kei Wan", "M190,235 L200,235 L195,245 L185,240 Z"},
	{"S_1", "S", "Pok Fu Lam", "M130,245 L145,245 L140,260 L130,255 Z"},
	{"S_2", "S", "Aberdeen", "M145,245 L160,245 L160,255 L145,260 Z"},
	{"S_3", "S", "Repulse Bay", "M160,245 L180,250 L170,265 L160,255 Z"},
	{"S_4", "S", "Stanley", "M180,250 L195,260 L185,275 L175,265 Z"},

	// Kowloon
	{"YTM_1", "YTM", "Tsim Sha Tsui", "M150,215 L165,215 L160,222 L150,220 Z"},
	{"YTM_2", "YTM", "Jordan", "M150,210 L165,210 L165,215 L150,215 Z"},
	{"YTM_3", "YTM", "Mong Kok", "M150,200 L165,200 L165,210 L150,210 Z"},
	{"SSP_1", "SSP", "Cheung Sha Wan", "M135,195 L150,200 L150,210 L135,205 Z"},
	{"SSP_2", "SSP", "Sham Shui Po", "M140,190 L155,195 L150,200 L140,195 Z"},
	{"SSP_3", "SSP", "Lai Chi Kok", "M130,190 L140,190 L140,200 L130,195 Z"},
	{"KC_1", "KC", "Hung Hom", "M165,210 L180,215 L175,222 L165,215 Z"},
	{"KC_2", "KC", "To Kwa Wan", "M165,200 L180,200 L180,215 L165,210 Z"},
	{"KC_3", "KC", "Kowloon Tong", "M160,190 L175,190 L175,200 L160,200 Z"},
	{"WTS_1", "WTS", "Wong Tai Sin", "M175,185 L190,185 L190,195 L175,195 Z"},
	{"WTS_2", "WTS", "Diamond Hill", "M180,180 L200,180 L195,190 L180,185 Z"},
	{"KT_1", "KT", "Kwun Tong", "M190,195 L210,195 L205,215 L190,205 Z"},
	{"KT_2", "KT", "Lam Tin", "M200,190 L215,190 L215,205 L200,200 Z"},
	{"KT_3", "KT", "Yau Tong", "M205,205 L220,205 L215,220 L205,215 Z"},

	// New Territories West
	{"K_1", "K", "Kwai Chung", "M130,170 L150,175 L145,190 L130,185 Z"},
	{"K_2", "K", "Tsing Yi", "M120,190 L135,190 L135,205 L120,200 Z"},
	{"TW_1", "TW", "Tsuen Wan Town", "M125,160 L145,165 L140,175 L125,170 Z"},
	{"TW_2", "TW", "Sham Tseng", "M110,165 L125,170 L120,180 L105,175 Z"},
	{"TW_3", "TW", "Ma Wan", "M135,185 L145,185 L145,190 L135,190 Z"},
	{"TM_1", "TM", "Tuen Mun Central", "M80,160 L100,160 L100,180 L80,175 Z"},
	{"TM_2", "TM", "Tuen Mun West", "M60,165 L80,165 L80,190 L60,180 Z"},
	{"TM_3", "TM", "So Kwun Wat", "M100,165 L110,170 L105,180 L95,175 Z"},
	{"YL_1", "YL", "Yuen Long Town", "M90,130 L110,130 L110,150 L90,150 Z"},
	{"YL_2", "YL", "Tin Shui Wai", "M80,120 L100,120 L100,135 L80,135 Z"},
	{"YL_3", "YL", "Kam Tin", "M110,135 L125,135 L125,155 L110,150 Z"},
	{"YL_4", "YL", "Ha Tsuen", "M70,130 L90,130 L90,150 L70,145 Z"},

	// New Territories East
	{"N_1", "N", "Sheung Shui", "M130,90 L150,90 L150,110 L130,110 Z"},
	{"N_2", "N", "Fanling", "M150,95 L170,100 L165,120 L150,115 Z"},
	{"N_3", "N", "Sha Tau Kok", "M170,90 L200,90 L190,110 L170,105 Z"},
	{"N_4", "N", "Ta Kwu Ling", "M150,80 L180,80 L175,95 L150,90 Z"},
	{"TP_1", "TP", "Tai Po Market", "M150,120 L170,125 L165,145 L145,140 Z"},
	{"TP_2", "TP", "Plover Cove", "M170,115 L210,115 L200,140 L170,130 Z"},
	{"TP_3", "TP", "Tai Po Kau", "M155,140 L170,140 L165,155 L150,150 Z"},
	{"ST_1", "ST", "Sha Tin Central", "M155,155 L175,160 L170,175 L150,170 Z"},
	{"ST_2", "ST", "Ma On Shan", "M175,150 L200,145 L195,165 L175,165 Z"},
	{"ST_3", "ST", "Fo Tan", "M150,145 L165,150 L160,160 L150,155 Z"},
	{"ST_4", "ST", "Tai Wai", "M145,165 L160,165 L155,180 L140,175 Z"},
	{"SK_1", "SK", "Sai Kung Town", "M200,160 L220,155 L225,180 L205,185 Z"},
	{"SK_2", "SK", "Tseung Kwan O", "M205,190 L225,190 L220,215 L200,205 Z"},
	{"SK_3", "SK", "Clear Water Bay", "M220,195 L240,205 L230,230 L215,220 Z"},

	// Islands
	{"I_1", "I", "Tung Chung", "M70,195 L95,195 L90,210 L65,205 Z"},
	{"I_2", "I", "Discovery Bay", "M100,195 L115,200 L110,215 L95,210 Z"},
	{"I_3", "I", "Mui Wo / South Lantau", "M70,210 L100,215 L90,240 L60,230 Z"},
	{"I_4", "I", "Tai O", "M50,200 L70,205 L65,225 L45,215 Z"},
	{"I_5", "I", "Cheung Chau", "M105,245 L115,245 L115,255 L105,255 Z"},
	{"I_6", "I", "Lamma Island", "M120,250 L135,255 L130,275 L115,270 Z"},
}
