package dataset

import (
	"testing/fstest"
)

const (
	anaID   = "c4f45cd0-1412-44be-b8b0-658322c5da84"
	bernaID = "0b1e6f2a-9d3c-4e5f-8a7b-6c5d4e3f2a1b"
)

const clientsCSV = "\ufeffid_cliente,nombres,apellidos,cedula,email,ciudad,ingresos_mensuales,gastos_mensuales,personas_a_cargo,estrato_socioeconomico,es_cliente_premium\n" +
	"C4F45CD0-1412-44BE-B8B0-658322C5DA84,Ana,Gómez,1020304050,ana@example.com,Bogotá,5000000,3200000.50,2,4,True\n" +
	"0b1e6f2a-9d3c-4e5f-8a7b-6c5d4e3f2a1b,Bernardo,Ruiz,,,Medellín,2500000,2600000,1.0,3,False\n"

const accountsCSV = "id_cliente,entidad_financiera,tipo_cuenta,numero_cuenta,saldo_actual,estado\n" +
	anaID + ",Bancolombia,Ahorros,0012345678,100,Activa\n" +
	anaID + ",Davivienda,Corriente,998877,200,Activa\n" +
	anaID + ",Nequi,Ahorros,3001112233,50.25,Inactiva\n" +
	bernaID + ",BBVA,Ahorros,5556667777,1000,Activa\n"

const historyCSV = "id_cliente,fecha_registro,entidad_financiera,tipo_operacion,pago_realizado,categoria_gasto,canal_transaccion,tipo_registro,titulo_alerta,mensaje_alerta,accion_recomendada,saldo_anterior,saldo_posterior,estado_cuenta\n" +
	anaID + ",2024-03-01 10:00:00,Bancolombia,Debito,120000,Alimentación,App,Transaccion,,,,500000,380000,Activa\n" +
	anaID + ",2024-03-02 09:30:00,Davivienda,Credito,,,,Alerta,Pago recibido,Se acreditó su nómina,Revisar saldo,,,\n" +
	anaID + ",2024-02-28T08:00:00Z,Nequi,Débito,35000.5,Transporte,POS,Transaccion,,,,,,\n" +
	bernaID + ",2024-03-05,BBVA,Credit,10,,,,,,,,,\n"

const scoringCSV = "id_cliente,puntaje_credito,cambio_puntaje_mes,categoria_riesgo,tendencia_score,percentil_nacional,deuda_total,ratio_deuda_ingreso,utilizacion_credito_promedio,numero_cuentas_activas,porcentaje_pagos_puntuales,dias_mora_maximos,probabilidad_default,score_prediccion_6meses,principal_factor_negativo,principal_oportunidad_mejora\n" +
	anaID + ",720,15,Bajo,Subiendo,82.5,12000000,0.35,0.42,3,97.5,0,0.021,735,Utilización alta,Reducir deuda\n"

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		ClientsFile:  {Data: []byte(clientsCSV)},
		AccountsFile: {Data: []byte(accountsCSV)},
		HistoryFile:  {Data: []byte(historyCSV)},
		ScoringFile:  {Data: []byte(scoringCSV)},
	}
}

func fixtureFile(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}
