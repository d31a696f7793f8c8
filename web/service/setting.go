package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Romankivs/Lab1Istp/database"
	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/logger"
	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/Romankivs/Lab1Istp/util/random"

	"gorm.io/gorm"
)

var defaultValueMap = map[string]string{
	"webListen":     "",
	"webPort":       "8000",
	"webCertFile":   "",
	"webKeyFile":    "",
	"secret":        random.Seq(32),
	"sessionMaxAge": "60",
}

// SettingService reads and writes panel settings. Keys missing from the
// settings table fall back to defaultValueMap.
type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// GetAllSetting returns every known key with its effective value.
func (s *SettingService) GetAllSetting() (map[string]string, error) {
	settings := make([]*model.Setting, 0)
	if err := s.db.Model(model.Setting{}).Find(&settings).Error; err != nil {
		return nil, err
	}
	all := make(map[string]string, len(defaultValueMap))
	for key, value := range defaultValueMap {
		all[key] = value
	}
	for _, setting := range settings {
		if _, ok := defaultValueMap[setting.Key]; ok {
			all[setting.Key] = setting.Value
		}
	}
	return all, nil
}

// Keys lists the known setting keys in alphabetical order.
func (s *SettingService) Keys() []string {
	keys := make([]string, 0, len(defaultValueMap))
	for key := range defaultValueMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *SettingService) ResetSettings() error {
	return s.db.Where("1 = 1").Delete(model.Setting{}).Error
}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	setting := &model.Setting{}
	err := s.db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		return s.db.Create(&model.Setting{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	setting.Value = value
	return s.db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("key <%v> not in defaultValueMap", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) setString(key string, value string) error {
	return s.saveSetting(key, value)
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) setInt(key string, value int) error {
	return s.setString(key, strconv.Itoa(value))
}

func (s *SettingService) GetListen() (string, error) {
	return s.getString("webListen")
}

func (s *SettingService) SetListen(ip string) error {
	return s.setString("webListen", ip)
}

func (s *SettingService) GetPort() (int, error) {
	return s.getInt("webPort")
}

func (s *SettingService) SetPort(port int) error {
	if port <= 0 || port > 65535 {
		return common.NewValidationError("webPort", "port %d is out of range", port)
	}
	return s.setInt("webPort", port)
}

func (s *SettingService) GetCertFile() (string, error) {
	return s.getString("webCertFile")
}

// SetCertFile sets the TLS certificate path. An empty path turns HTTPS off.
func (s *SettingService) SetCertFile(webCertFile string) error {
	return s.setString("webCertFile", strings.TrimSpace(webCertFile))
}

func (s *SettingService) GetKeyFile() (string, error) {
	return s.getString("webKeyFile")
}

func (s *SettingService) SetKeyFile(webKeyFile string) error {
	return s.setString("webKeyFile", strings.TrimSpace(webKeyFile))
}

// GetSessionMaxAge returns the identity session lifetime in minutes.
func (s *SettingService) GetSessionMaxAge() (int, error) {
	return s.getInt("sessionMaxAge")
}

func (s *SettingService) SetSessionMaxAge(minutes int) error {
	if minutes <= 0 {
		return common.NewValidationError("sessionMaxAge", "must be positive")
	}
	return s.setInt("sessionMaxAge", minutes)
}

// GetSecret returns the cookie signing key, persisting the generated
// default on first use so restarts keep sessions valid.
func (s *SettingService) GetSecret() ([]byte, error) {
	secret, err := s.getString("secret")
	if secret == defaultValueMap["secret"] {
		err := s.saveSetting("secret", secret)
		if err != nil {
			logger.Warning("save secret failed:", err)
		}
	}
	return []byte(secret), err
}
